// Package apiclient is the JSON client used to talk to the MyFarm API.
//
// Responses follow the {"message","data","meta"} / {"message","error"}
// envelope. Non-2xx responses are rebuilt as *goerror.Error values from the
// HTTP status, so callers branch on goerror codes rather than raw statuses.
package apiclient
