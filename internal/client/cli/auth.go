package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lightbox/internal/common"
)

// Prompt indirections, replaced in tests.
var readLine = ReadLine
var readSecret = ReadSecret

func (a *App) credentials() (string, []byte, error) {
	userName, err := readLine(a.reader, "Username", a.out)
	if err != nil {
		return "", nil, err
	}

	password, err := readSecret(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register prompts for a username and password and claims the admin account.
// Once an admin exists the server refuses and the error is returned as is.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.api.Register(ctx, userName, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s\n", u.Username)
	return nil
}

// Login prints the session token on its own line so it can be piped.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	resp, err := a.api.Login(ctx, userName, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, resp.AccessToken)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	token, err := readLine(a.reader, "Token", a.out)
	if err != nil {
		return err
	}

	u, err := a.api.Me(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", u.Username)
	return nil
}
