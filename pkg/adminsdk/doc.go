/*
Package adminsdk is a Go client for the Lunch Manager admin service.

# Client vs Session

Client covers the endpoints that need no caller identity: health probes,
bootstrap and (against the local identity backend) password sign-in.
Session carries an ID token and calls the admin callables:

	client := adminsdk.NewClient("http://localhost:8080")

	// One-time setup of the first admin.
	boot, err := client.Bootstrap(ctx, token, adminsdk.BootstrapRequest{...})

	// Sign in against the local identity backend...
	session, err := client.SignIn(ctx, "root@example.com", password)

	// ...or reuse a token obtained elsewhere (e.g. a Firebase ID token).
	session = client.NewSession(idToken)

	created, err := session.CreateUser(ctx, adminsdk.CreateUserRequest{...})
	_, err = session.DeleteUser(ctx, created.UID)

# Errors

Every failure returned by the service is an *Error carrying the callable
code (unauthenticated, permission-denied, invalid-argument, internal, ...)
and the server message:

	var apiErr *adminsdk.Error
	if errors.As(err, &apiErr) && apiErr.Code == adminsdk.CodePermissionDenied {
		// caller is not an admin
	}

The server uses the same type to write its responses, so the wire format
stays in one place.
*/
package adminsdk
