package models

// User is a post author. Only the username is known to the service, the
// rest of the identity lives with the token issuer.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Group is a named category of posts, addressed by its slug.
type Group struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}
