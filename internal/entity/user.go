package entity

// UserLoginData is the identity the token middleware stores in the request locals.
type UserLoginData struct {
	ID       string
	Username string
	Email    string
}
