/*
Package usersdk provides a client SDK for the user account service together with the wire types
shared by the server and its callers.

# Client vs Session

Public operations (registration, confirmation, login, health) live on Client. Login returns a
Session that carries the issued bearer token and exposes the operations that require an
authenticated user:

	client := usersdk.NewClient("https://users.example.com")

	_, err := client.Register(ctx, usersdk.RegisterRequest{
		Name:             "Harry Potter",
		Email:            "harry@hogwarts.example",
		Password:         "Expelliarmus1!",
		MatchingPassword: "Expelliarmus1!",
	})

	session, err := client.Login(ctx, "harry@hogwarts.example", "Expelliarmus1!")
	me, err := session.CurrentUser(ctx)

A token obtained elsewhere (for example from the OAuth2 redirect) can be wrapped with
Client.NewSession.

# Errors

Every non-2xx response is returned as *APIError, built from the service response envelope.
Validation failures additionally expose the offending fields through APIError.FieldErrors.

	if apiErr, ok := usersdk.AsAPIError(err); ok && apiErr.StatusCode == http.StatusConflict {
		// email already registered
	}
*/
package usersdk
