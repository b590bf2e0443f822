package handlers

import (
	"encoding/json"
	"fmt"

	xhttp "github.com/yakirz/sales-gateway/pkg/http"
)

// Per-resource write bodies are closed sets: a request carrying any field
// outside its resource's list is rejected before it touches storage.
var (
	allowedGroupFields = fieldSet("group_name")

	allowedUserFields = fieldSet(
		"group_id", "user_email", "user_password", "user_first_name", "user_last_name", "user_phone")

	allowedUserUpdateFields = fieldSet(
		"group_id", "user_first_name", "user_last_name", "user_phone")

	allowedClientFields = fieldSet(
		"client_id", "first_name", "last_name", "address", "city", "phone", "email")

	allowedTrackFields = fieldSet(
		"company", "price", "track_name", "description", "kosher")

	allowedSaleFields = fieldSet(
		"client_id", "first_name", "last_name", "address", "city", "phone", "email",
		"credit_card", "bank_account", "tracks", "comment", "reminds")

	allowedTransactionUpdateFields = fieldSet("status", "comment", "reminds")

	allowedSignupFields = fieldSet("unique_id", "user_password")

	allowedAuthFields = fieldSet("email", "password")
)

func fieldSet(names ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// readJSONAllowed decodes the body into dst after checking every top-level
// field against the resource's allow-list.
func readJSONAllowed(ctx *xhttp.RequestCtx, dst any, allowed map[string]struct{}) error {
	body := ctx.PostBody()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return err
	}
	for field := range raw {
		if _, ok := allowed[field]; !ok {
			return fmt.Errorf("unexpected field %q", field)
		}
	}

	return json.Unmarshal(body, dst)
}

// updateValues returns the raw top-level fields of an update body, checked
// against the allow-list, for partial updates passed straight to storage.
func updateValues(ctx *xhttp.RequestCtx, allowed map[string]struct{}) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(ctx.PostBody(), &raw); err != nil {
		return nil, err
	}
	for field := range raw {
		if _, ok := allowed[field]; !ok {
			return nil, fmt.Errorf("unexpected field %q", field)
		}
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty update")
	}
	return raw, nil
}
