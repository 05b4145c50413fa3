package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	accessregistry "domin/contexts/access-control/access-registry"
	registryapp "domin/contexts/access-control/access-registry/application"
	delegationledger "domin/contexts/delegation/delegation-ledger"
	ledgerapp "domin/contexts/delegation/delegation-ledger/application"
	ledgerentities "domin/contexts/delegation/delegation-ledger/domain/entities"
	redemptionengine "domin/contexts/delegation/redemption-engine"
	engineports "domin/contexts/delegation/redemption-engine/ports"
	feevault "domin/contexts/finance-core/fee-vault"
	vaultapp "domin/contexts/finance-core/fee-vault/application"
	vaultentities "domin/contexts/finance-core/fee-vault/domain/entities"
)

const (
	testAdmin    = "registry-admin"
	testMinter   = "minter-1"
	testFeeAdmin = "fee-admin-1"
)

type testEnv struct {
	server *Server
	vault  feevault.Module
	engine redemptionengine.Module
}

type testGuard struct {
	registry registryapp.Service
}

func (g testGuard) CanCall(ctx context.Context, principal string, target string, selector string) (bool, error) {
	decision, err := g.registry.CanCall(ctx, principal, target, selector)
	if err != nil {
		return false, err
	}
	return decision.Allowed, nil
}

type testBindings struct {
	ledger ledgerapp.Service
}

func (b testBindings) CheckBinding(ctx context.Context, caller string, authorizerID uint64, operatorID uint64) (engineports.Binding, error) {
	binding, err := b.ledger.CheckBinding(ctx, caller, authorizerID, operatorID)
	if err != nil {
		return engineports.Binding{}, err
	}
	return engineports.Binding{
		AuthorizerID: binding.AuthorizerID,
		OperatorID:   binding.OperatorID,
		DelegateRef:  binding.DelegateRef,
		Verified:     binding.Verified,
	}, nil
}

type testFees struct {
	vault vaultapp.Service
}

func (f testFees) EnsureFunds(ctx context.Context, authorizerID uint64) error {
	return f.vault.EnsureFunds(ctx, authorizerID)
}

func (f testFees) DebitForRedemption(ctx context.Context, authorizerID uint64) error {
	_, _, err := f.vault.DebitForRedemption(ctx, authorizerID)
	return err
}

// newTestEnv wires the four in-memory modules the way bootstrap does and
// seeds the role bindings the gated mint/config endpoints rely on.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	logger := slog.Default()

	registry := accessregistry.NewInMemoryModule(testAdmin, logger)
	guard := testGuard{registry: registry.Service}
	ledger := delegationledger.NewInMemoryModule(guard, logger)
	vault := feevault.NewInMemoryModule(guard, 100, 5, logger)
	engine := redemptionengine.NewInMemoryModule(
		testBindings{ledger: ledger.Service},
		testFees{vault: vault.Service},
		nil,
		logger,
	)

	ctx := context.Background()
	if _, err := registry.Service.SetTargetFunctionRole(ctx, testAdmin, ledgerentities.TargetName,
		[]string{ledgerentities.SelectorMintAuthorizer, ledgerentities.SelectorMintOperator}, 1); err != nil {
		t.Fatalf("seed ledger bindings: %v", err)
	}
	if _, err := registry.Service.SetTargetFunctionRole(ctx, testAdmin, vaultentities.TargetName,
		[]string{vaultentities.SelectorSetFeeCurrency}, 2); err != nil {
		t.Fatalf("seed vault bindings: %v", err)
	}
	if _, err := registry.Service.GrantRole(ctx, testAdmin, 1, testMinter, 0); err != nil {
		t.Fatalf("grant minter role: %v", err)
	}
	if _, err := registry.Service.GrantRole(ctx, testAdmin, 2, testFeeAdmin, 0); err != nil {
		t.Fatalf("grant fee admin role: %v", err)
	}

	server := New(registry, ledger, engine, vault, logger, ":0")
	return testEnv{server: server, vault: vault, engine: engine}
}

func doRequest(t *testing.T, server *Server, method string, path string, principal string, idempotencyKey string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	}
	if principal != "" {
		req.Header.Set("X-Principal", principal)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rr.Body.String())
	}
}

func mintAuthorizerForTest(t *testing.T, env testEnv, owner string, key string) uint64 {
	t.Helper()
	rr := doRequest(t, env.server, http.MethodPost, "/api/delegation/v1/authorizers", testMinter, key,
		fmt.Sprintf(`{"owner":%q}`, owner))
	if rr.Code != http.StatusOK {
		t.Fatalf("mint authorizer for %s: got %d body=%s", owner, rr.Code, rr.Body.String())
	}
	var resp struct {
		TokenID uint64 `json:"token_id"`
	}
	decodeBody(t, rr, &resp)
	return resp.TokenID
}

func mintOperatorForTest(t *testing.T, env testEnv, parentID uint64, owner string, key string) uint64 {
	t.Helper()
	rr := doRequest(t, env.server, http.MethodPost,
		fmt.Sprintf("/api/delegation/v1/authorizers/%d/operators", parentID), testMinter, key,
		fmt.Sprintf(`{"owner":%q}`, owner))
	if rr.Code != http.StatusOK {
		t.Fatalf("mint operator under %d: got %d body=%s", parentID, rr.Code, rr.Body.String())
	}
	var resp struct {
		TokenID uint64 `json:"token_id"`
	}
	decodeBody(t, rr, &resp)
	return resp.TokenID
}

func TestGrantRoleRequiresPrincipalHeader(t *testing.T) {
	env := newTestEnv(t)
	rr := doRequest(t, env.server, http.MethodPost, "/api/access/v1/roles/3/grant", "", "", `{"principal":"carol"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGrantRoleRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	rr := doRequest(t, env.server, http.MethodPost, "/api/access/v1/roles/3/grant", "mallory", "", `{"principal":"mallory"}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGrantRoleThenMembershipIsActive(t *testing.T) {
	env := newTestEnv(t)
	rr := doRequest(t, env.server, http.MethodPost, "/api/access/v1/roles/3/grant", testAdmin, "", `{"principal":"carol"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 grant, got %d body=%s", rr.Code, rr.Body.String())
	}

	check := doRequest(t, env.server, http.MethodGet, "/api/access/v1/roles/3/members/carol", "", "", "")
	if check.Code != http.StatusOK {
		t.Fatalf("expected 200 membership read, got %d body=%s", check.Code, check.Body.String())
	}
	var resp struct {
		Active bool `json:"active"`
	}
	decodeBody(t, check, &resp)
	if !resp.Active {
		t.Fatalf("expected active membership, got body=%s", check.Body.String())
	}
}

func TestSetTargetFunctionRoleRejectsMalformedSelector(t *testing.T) {
	env := newTestEnv(t)
	rr := doRequest(t, env.server, http.MethodPost, "/api/access/v1/targets/delegation-ledger/functions", testAdmin, "",
		`{"selectors":["not-a-selector"],"role_id":1}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGetTargetFunctionRoleUnknownBinding(t *testing.T) {
	env := newTestEnv(t)
	rr := doRequest(t, env.server, http.MethodGet, "/api/access/v1/targets/unknown-target/functions/0xdeadbeef", "", "", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGrantRoleRejectsMalformedRoleID(t *testing.T) {
	env := newTestEnv(t)
	rr := doRequest(t, env.server, http.MethodPost, "/api/access/v1/roles/not-a-number/grant", testAdmin, "", `{"principal":"carol"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}
