package provider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/provider"
)

func TestInferAccountType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		subtype     string
		accountType string
		want        domain.AccountType
	}{
		{"checking", "depository", domain.AccountChecking},
		{"credit card", "credit", domain.AccountCredit},
		{"debit card", "other", domain.AccountDebit},
		{"depository", "", domain.AccountChecking},
		{"loan", "", domain.AccountCredit},
		{"other", "", domain.AccountDebit},
		{"", "credit", domain.AccountCredit},
		{"", "", domain.AccountChecking},
		{"savings", "depository", domain.AccountChecking},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, provider.InferAccountType(c.subtype, c.accountType),
			"subtype=%q type=%q", c.subtype, c.accountType)
	}
}
