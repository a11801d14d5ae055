package store

// User is an anonymous chat user identified by a cookie-issued UUID.
type User struct {
	ID        string
	CreatedTs int64
}

// FindUser is the find condition for user.
type FindUser struct {
	ID *string
}
