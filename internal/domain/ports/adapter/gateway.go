package adapter

import (
	"context"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
)

type RedirectKind string

const (
	// RedirectForm hands the user to the gateway with an auto-submitted
	// HTTP POST form (the provider renders its own payment UI).
	RedirectForm RedirectKind = "form_post"
	// RedirectURL hands the user to an opaque payment URL obtained from
	// the provider.
	RedirectURL RedirectKind = "url"
)

// FormField is one hidden input of a form-post redirect. Order matters:
// the redirect-form provider validates the signature over a fixed field
// order, so fields are a slice, not a map.
type FormField struct {
	Name  string
	Value string
}

// Redirect describes how the caller must leave the app to reach the
// gateway. Exactly one of Fields (form post) or URL alone (plain redirect)
// applies, per Kind.
type Redirect struct {
	Kind   RedirectKind
	URL    string
	Fields []FormField

	// TransactionUUID is the id generated for redirect-form providers.
	TransactionUUID string
	// CorrelationID is the provider token to expect back on the return
	// trip, when the provider hands one out at initiation (e.g. pidx).
	CorrelationID string
}

// Field returns the value of a named form field, or "" when absent.
func (r *Redirect) Field(name string) string {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// PaymentGateway is the hex port for payment providers. Initiate builds the
// outbound redirect for a staged intent; it performs no navigation itself
// and must not be retried for the same intent once a redirect was issued.
type PaymentGateway interface {
	Name() model.Provider
	Initiate(ctx context.Context, intent *model.PaymentIntent, returnURL string) (*Redirect, error)
}
