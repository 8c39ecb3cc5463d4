package sessions

import (
	"time"

	"golang.org/x/oauth2"
)

// Session is the stored Google token of one signed-in user.
type Session struct {
	Subject   string
	Name      string
	Email     string
	Token     *oauth2.Token
	CreatedAt time.Time
	UpdatedAt time.Time
}
