// Package validator checks decoded queue payloads with composable rules.
//
// Each rule is a closure plus the error reported when it fails. Apply runs all
// of them and returns ValidationErrors listing every failed field, so a bad
// message is reported in full rather than one field at a time.
//
//	err := validator.Apply(
//	    validator.MinNum("user_id", msg.UserID, 1),
//	    validator.RequiredString("username", msg.Username),
//	    validator.CountryCode("country", msg.Country),
//	)
//	if validator.IsValidationError(err) {
//	    // drop the message
//	}
package validator
