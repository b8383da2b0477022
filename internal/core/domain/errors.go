package domain

import "errors"

var ErrAuthFailed = errors.New("authentication failed")
var ErrNoToken = errors.New("no access token in credential response")
var ErrAccessDenied = errors.New("access denied")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrRegistrationRejected = errors.New("registration rejected")
var ErrSessionBusy = errors.New("another session operation is in progress")
var ErrInvalidTransition = errors.New("invalid session step transition")
