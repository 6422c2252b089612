package validation_test

import (
	"testing"

	"github.com/ferdiebergado/chatrelay/internal/platform/validation"
)

func TestGoPlaygroundValidator_ValidateStruct(t *testing.T) {
	t.Parallel()

	type startConversation struct {
		Subject string `json:"subject" validate:"required,oneof=autoestima prosperidade"`
	}

	type renameConversation struct {
		Subject string `json:"subject" validate:"required,max=8"`
	}

	tests := []struct {
		name   string
		given  any
		field  string
		errMsg string
	}{
		{"Valid subject", startConversation{"autoestima"}, "subject", ""},
		{"Missing subject", startConversation{}, "subject", "subject is required"},
		{"Unknown subject", startConversation{"astrologia"}, "subject", "subject must be one of [autoestima prosperidade]"},
		{"Too long", renameConversation{"a very long title"}, "subject", "subject must be at most 8 characters long"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := validation.NewGoPlaygroundValidator()

			errs := v.ValidateStruct(tc.given)
			if tc.errMsg == "" && len(errs) != 0 {
				t.Errorf("v.ValidateStruct(%+v) = %+v, want: no errors", tc.given, errs)
			}

			if gotMsg, wantMsg := errs[tc.field], tc.errMsg; gotMsg != wantMsg {
				t.Errorf("errs[%q] = %q, want: %q", tc.field, gotMsg, wantMsg)
			}
		})
	}
}
