package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestRedeemRequiresPrincipalHeader(t *testing.T) {
	env := newTestEnv(t)
	rr := doRequest(t, env.server, http.MethodPost, "/api/redemption/v1/redeem", "", "",
		`{"authorizer_id":1,"operator_id":1,"requests":[{"asset_ref":"asset:clips","asset_id":1,"memo":"m"}]}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRedeemEmptyBatchRejected(t *testing.T) {
	env := newTestEnv(t)
	rr := doRequest(t, env.server, http.MethodPost, "/api/redemption/v1/redeem", "alice", "",
		`{"authorizer_id":1,"operator_id":1,"requests":[]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRedeemForbiddenForNonOwner(t *testing.T) {
	env := newTestEnv(t)
	authorizerID := mintAuthorizerForTest(t, env, "alice", "idem-re-1a")
	operatorID := mintOperatorForTest(t, env, authorizerID, "bob", "idem-re-1b")

	rr := doRequest(t, env.server, http.MethodPost, "/api/redemption/v1/redeem", "mallory", "",
		fmt.Sprintf(`{"authorizer_id":%d,"operator_id":%d,"requests":[{"asset_ref":"asset:clips","asset_id":1,"memo":"m"}]}`,
			authorizerID, operatorID))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRedeemWithoutPrepaidFeeRejected(t *testing.T) {
	env := newTestEnv(t)
	setFeeCurrencyForTest(t, env)
	authorizerID := mintAuthorizerForTest(t, env, "alice", "idem-re-2a")
	operatorID := mintOperatorForTest(t, env, authorizerID, "bob", "idem-re-2b")

	ids, err := env.engine.Assets.BatchMint(context.Background(), "asset:clips", "alice", 1)
	if err != nil {
		t.Fatalf("mint assets: %v", err)
	}

	rr := doRequest(t, env.server, http.MethodPost, "/api/redemption/v1/redeem", "alice", "",
		fmt.Sprintf(`{"authorizer_id":%d,"operator_id":%d,"requests":[{"asset_ref":"asset:clips","asset_id":%d,"memo":"m"}]}`,
			authorizerID, operatorID, ids[0]))
	if rr.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRedeemFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	setFeeCurrencyForTest(t, env)
	authorizerID := mintAuthorizerForTest(t, env, "alice", "idem-re-3a")
	operatorID := mintOperatorForTest(t, env, authorizerID, "bob", "idem-re-3b")

	fundDepositorForTest(t, env, "alice", 1000)
	deposit := doRequest(t, env.server, http.MethodPost,
		fmt.Sprintf("/api/vault/v1/authorizers/%d/deposit", authorizerID), "alice", "idem-re-3c",
		`{"amount":300}`)
	if deposit.Code != http.StatusOK {
		t.Fatalf("deposit: got %d body=%s", deposit.Code, deposit.Body.String())
	}

	ids, err := env.engine.Assets.BatchMint(context.Background(), "asset:clips", "alice", 2)
	if err != nil {
		t.Fatalf("mint assets: %v", err)
	}

	// The redemption id is an opaque caller-supplied correlation value; the
	// same id on both requests is legal and must come back verbatim.
	rr := doRequest(t, env.server, http.MethodPost, "/api/redemption/v1/redeem", "alice", "",
		fmt.Sprintf(`{"authorizer_id":%d,"operator_id":%d,"requests":[{"redemption_id":"rdm-test-0001","asset_ref":"asset:clips","asset_id":%d,"memo":"first"},{"redemption_id":"rdm-test-0001","asset_ref":"asset:clips","asset_id":%d,"memo":"second"}]}`,
			authorizerID, operatorID, ids[0], ids[1]))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 redeem, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Records []struct {
			RedemptionID string `json:"redemption_id"`
			Memo         string `json:"memo"`
			Delegate     string `json:"delegate"`
		} `json:"records"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Records) != 2 {
		t.Fatalf("expected two records, got %+v", resp)
	}
	for _, record := range resp.Records {
		if record.RedemptionID != "rdm-test-0001" {
			t.Fatalf("caller redemption id must round-trip, got %q", record.RedemptionID)
		}
		if strings.HasPrefix(record.Memo, "[WARNING] ") {
			t.Fatalf("standard delegate memo must stay untagged, got %q", record.Memo)
		}
	}

	balance := doRequest(t, env.server, http.MethodGet,
		fmt.Sprintf("/api/vault/v1/authorizers/%d/balance", authorizerID), "", "", "")
	var balanceResp struct {
		Balance int64 `json:"balance"`
	}
	decodeBody(t, balance, &balanceResp)
	if balanceResp.Balance != 200 {
		t.Fatalf("expected one flat fee debit (300-100=200), got %d", balanceResp.Balance)
	}

	audits := doRequest(t, env.server, http.MethodGet,
		fmt.Sprintf("/api/redemption/v1/authorizers/%d/audits", authorizerID), "", "", "")
	if audits.Code != http.StatusOK {
		t.Fatalf("expected 200 audits, got %d body=%s", audits.Code, audits.Body.String())
	}
	var auditResp struct {
		Records []struct {
			RedemptionID string `json:"redemption_id"`
		} `json:"records"`
	}
	decodeBody(t, audits, &auditResp)
	if len(auditResp.Records) != 2 {
		t.Fatalf("expected two audit records, got %d", len(auditResp.Records))
	}
	for _, record := range auditResp.Records {
		if record.RedemptionID != "rdm-test-0001" {
			t.Fatalf("audit record must carry the caller redemption id, got %q", record.RedemptionID)
		}
	}
}

func TestRedeemTagsUnverifiedDelegateMemo(t *testing.T) {
	env := newTestEnv(t)
	setFeeCurrencyForTest(t, env)
	authorizerID := mintAuthorizerForTest(t, env, "alice", "idem-re-4a")
	operatorID := mintOperatorForTest(t, env, authorizerID, "bob", "idem-re-4b")

	setDelegate := doRequest(t, env.server, http.MethodPost,
		fmt.Sprintf("/api/delegation/v1/operators/%d/delegate", operatorID), "bob", "",
		`{"delegate":"delegate:burn"}`)
	if setDelegate.Code != http.StatusOK {
		t.Fatalf("set delegate: got %d body=%s", setDelegate.Code, setDelegate.Body.String())
	}

	fundDepositorForTest(t, env, "alice", 1000)
	deposit := doRequest(t, env.server, http.MethodPost,
		fmt.Sprintf("/api/vault/v1/authorizers/%d/deposit", authorizerID), "alice", "idem-re-4c",
		`{"amount":300}`)
	if deposit.Code != http.StatusOK {
		t.Fatalf("deposit: got %d body=%s", deposit.Code, deposit.Body.String())
	}

	ctx := context.Background()
	ids, err := env.engine.Assets.BatchMint(ctx, "asset:clips", "alice", 1)
	if err != nil {
		t.Fatalf("mint assets: %v", err)
	}
	if err := env.engine.Assets.Approve(ctx, "asset:clips", ids[0], "alice", "delegate:burn"); err != nil {
		t.Fatalf("approve burn delegate: %v", err)
	}

	rr := doRequest(t, env.server, http.MethodPost, "/api/redemption/v1/redeem", "alice", "",
		fmt.Sprintf(`{"authorizer_id":%d,"operator_id":%d,"requests":[{"asset_ref":"asset:clips","asset_id":%d,"memo":"burn it"}]}`,
			authorizerID, operatorID, ids[0]))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 redeem, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Records []struct {
			Memo string `json:"memo"`
		} `json:"records"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Records) != 1 || resp.Records[0].Memo != "[WARNING] burn it" {
		t.Fatalf("expected warning-tagged memo, got %+v", resp)
	}

	if _, err := env.engine.Assets.OwnerOf(ctx, "asset:clips", ids[0]); err == nil {
		t.Fatalf("expected asset retired after burn")
	}
}

func TestRedeemWithoutBurnApprovalRejected(t *testing.T) {
	env := newTestEnv(t)
	setFeeCurrencyForTest(t, env)
	authorizerID := mintAuthorizerForTest(t, env, "alice", "idem-re-5a")
	operatorID := mintOperatorForTest(t, env, authorizerID, "bob", "idem-re-5b")

	setDelegate := doRequest(t, env.server, http.MethodPost,
		fmt.Sprintf("/api/delegation/v1/operators/%d/delegate", operatorID), "bob", "",
		`{"delegate":"delegate:burn"}`)
	if setDelegate.Code != http.StatusOK {
		t.Fatalf("set delegate: got %d body=%s", setDelegate.Code, setDelegate.Body.String())
	}

	fundDepositorForTest(t, env, "alice", 1000)
	deposit := doRequest(t, env.server, http.MethodPost,
		fmt.Sprintf("/api/vault/v1/authorizers/%d/deposit", authorizerID), "alice", "idem-re-5c",
		`{"amount":300}`)
	if deposit.Code != http.StatusOK {
		t.Fatalf("deposit: got %d body=%s", deposit.Code, deposit.Body.String())
	}

	ids, err := env.engine.Assets.BatchMint(context.Background(), "asset:clips", "alice", 1)
	if err != nil {
		t.Fatalf("mint assets: %v", err)
	}

	rr := doRequest(t, env.server, http.MethodPost, "/api/redemption/v1/redeem", "alice", "",
		fmt.Sprintf(`{"authorizer_id":%d,"operator_id":%d,"requests":[{"asset_ref":"asset:clips","asset_id":%d,"memo":"m"}]}`,
			authorizerID, operatorID, ids[0]))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}
