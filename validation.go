package auth

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ValidationDetails flattens ozzo validation errors into field -> message
func ValidationDetails(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr == nil {
				continue
			}
			out[field] = ferr.Error()
		}
		return out
	}

	out["body"] = err.Error()
	return out
}
