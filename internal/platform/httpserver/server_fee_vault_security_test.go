package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

const (
	testCurrency = "domin-token"
	testTreasury = "treasury-1"
)

func setFeeCurrencyForTest(t *testing.T, env testEnv) {
	t.Helper()
	rr := doRequest(t, env.server, http.MethodPost, "/api/vault/v1/fee-currency", testFeeAdmin, "",
		fmt.Sprintf(`{"currency":%q,"treasury":%q}`, testCurrency, testTreasury))
	if rr.Code != http.StatusOK {
		t.Fatalf("set fee currency: got %d body=%s", rr.Code, rr.Body.String())
	}
}

func fundDepositorForTest(t *testing.T, env testEnv, account string, amount int64) {
	t.Helper()
	ctx := context.Background()
	if err := env.vault.Ledger.Faucet(ctx, testCurrency, account, amount); err != nil {
		t.Fatalf("faucet %s: %v", account, err)
	}
	if err := env.vault.Ledger.Approve(ctx, testCurrency, account, testTreasury, amount); err != nil {
		t.Fatalf("approve treasury for %s: %v", account, err)
	}
}

func TestSetFeeCurrencyRequiresRole(t *testing.T) {
	env := newTestEnv(t)
	rr := doRequest(t, env.server, http.MethodPost, "/api/vault/v1/fee-currency", "mallory", "",
		`{"currency":"domin-token","treasury":"treasury-1"}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDepositBeforeFeeCurrencyConfigured(t *testing.T) {
	env := newTestEnv(t)
	authorizerID := mintAuthorizerForTest(t, env, "alice", "idem-fv-1")

	rr := doRequest(t, env.server, http.MethodPost,
		fmt.Sprintf("/api/vault/v1/authorizers/%d/deposit", authorizerID), "alice", "idem-fv-1b",
		`{"amount":100}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDepositWithoutCurrencyFundsRejected(t *testing.T) {
	env := newTestEnv(t)
	setFeeCurrencyForTest(t, env)
	authorizerID := mintAuthorizerForTest(t, env, "alice", "idem-fv-2")

	rr := doRequest(t, env.server, http.MethodPost,
		fmt.Sprintf("/api/vault/v1/authorizers/%d/deposit", authorizerID), "alice", "idem-fv-2b",
		`{"amount":100}`)
	if rr.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDepositAndReadBalance(t *testing.T) {
	env := newTestEnv(t)
	setFeeCurrencyForTest(t, env)
	authorizerID := mintAuthorizerForTest(t, env, "alice", "idem-fv-3")
	fundDepositorForTest(t, env, "alice", 1000)

	deposit := doRequest(t, env.server, http.MethodPost,
		fmt.Sprintf("/api/vault/v1/authorizers/%d/deposit", authorizerID), "alice", "idem-fv-3b",
		`{"amount":250}`)
	if deposit.Code != http.StatusOK {
		t.Fatalf("expected 200 deposit, got %d body=%s", deposit.Code, deposit.Body.String())
	}

	balance := doRequest(t, env.server, http.MethodGet,
		fmt.Sprintf("/api/vault/v1/authorizers/%d/balance", authorizerID), "", "", "")
	if balance.Code != http.StatusOK {
		t.Fatalf("expected 200 balance read, got %d body=%s", balance.Code, balance.Body.String())
	}
	var resp struct {
		Balance int64 `json:"balance"`
	}
	decodeBody(t, balance, &resp)
	if resp.Balance != 250 {
		t.Fatalf("expected balance 250, got %d", resp.Balance)
	}
}

func TestDepositRequiresIdempotencyKey(t *testing.T) {
	env := newTestEnv(t)
	setFeeCurrencyForTest(t, env)
	authorizerID := mintAuthorizerForTest(t, env, "alice", "idem-fv-4")
	fundDepositorForTest(t, env, "alice", 1000)

	rr := doRequest(t, env.server, http.MethodPost,
		fmt.Sprintf("/api/vault/v1/authorizers/%d/deposit", authorizerID), "alice", "",
		`{"amount":100}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRewardReadStartsAtZero(t *testing.T) {
	env := newTestEnv(t)
	authorizerID := mintAuthorizerForTest(t, env, "alice", "idem-fv-5")

	rr := doRequest(t, env.server, http.MethodGet,
		fmt.Sprintf("/api/vault/v1/authorizers/%d/reward", authorizerID), "", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Accrued int64 `json:"accrued"`
	}
	decodeBody(t, rr, &resp)
	if resp.Accrued != 0 {
		t.Fatalf("expected zero accrued reward, got %d", resp.Accrued)
	}
}
