package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	eventsv1 "domin/contracts/gen/events/v1"
	"domin/contexts/delegation/redemption-engine/adapters/delegates"
	"domin/contexts/delegation/redemption-engine/adapters/memory"
	"domin/contexts/delegation/redemption-engine/domain/entities"
	domainerrors "domin/contexts/delegation/redemption-engine/domain/errors"
	"domin/contexts/delegation/redemption-engine/ports"
)

var errForbidden = errors.New("caller is not the authorizer token owner")

type stubBindings struct {
	owner       string
	delegateRef string
	verified    bool
}

func (b *stubBindings) CheckBinding(_ context.Context, caller string, authorizerID uint64, operatorID uint64) (ports.Binding, error) {
	if caller != b.owner {
		return ports.Binding{}, fmt.Errorf("%w: %s", errForbidden, caller)
	}
	return ports.Binding{
		AuthorizerID: authorizerID,
		OperatorID:   operatorID,
		DelegateRef:  b.delegateRef,
		Verified:     b.verified,
	}, nil
}

type stubFees struct {
	balance int64
	fee     int64
	debits  int
}

var errInsufficientFee = errors.New("insufficient prepaid fee balance")

func (f *stubFees) EnsureFunds(_ context.Context, _ uint64) error {
	if f.balance < f.fee {
		return errInsufficientFee
	}
	return nil
}

func (f *stubFees) DebitForRedemption(_ context.Context, _ uint64) error {
	if f.balance < f.fee {
		return errInsufficientFee
	}
	f.balance -= f.fee
	f.debits++
	return nil
}

type fixture struct {
	service  *Service
	bindings *stubBindings
	fees     *stubFees
	assets   *memory.AssetRegistry
	store    *memory.Store
}

func newFixture(delegateRef string, verified bool) fixture {
	bindings := &stubBindings{owner: "alice", delegateRef: delegateRef, verified: verified}
	fees := &stubFees{balance: 1000, fee: 100}
	store := memory.NewStore()
	assets := memory.NewAssetRegistry()
	service := NewService(
		bindings,
		fees,
		assets,
		delegates.NewDefaultRegistry(assets, nil),
		store,
		store,
		store,
		nil,
	)
	return fixture{service: service, bindings: bindings, fees: fees, assets: assets, store: store}
}

func (f fixture) mint(t *testing.T, owner string, count int) []uint64 {
	t.Helper()
	ids, err := f.assets.BatchMint(context.Background(), "asset:test", owner, count)
	if err != nil {
		t.Fatalf("batch mint failed: %v", err)
	}
	return ids
}

func requests(ids []uint64, memo string) []entities.RedemptionRequest {
	items := make([]entities.RedemptionRequest, 0, len(ids))
	for _, id := range ids {
		items = append(items, entities.RedemptionRequest{
			RedemptionID: fmt.Sprintf("rdm-%04d", id),
			AssetRef:     "asset:test",
			AssetID:      id,
			Memo:         memo,
		})
	}
	return items
}

func TestRedeemEmptyBatch(t *testing.T) {
	f := newFixture(entities.DelegateStandard, true)

	_, err := f.service.Redeem(context.Background(), "alice", 1, 1, nil)
	if !errors.Is(err, domainerrors.ErrEmptyBatch) {
		t.Fatalf("expected empty batch error, got %v", err)
	}
}

func TestRedeemStandardDelegateUnprefixedMemo(t *testing.T) {
	f := newFixture(entities.DelegateStandard, true)
	ids := f.mint(t, "holder-1", 2)

	records, err := f.service.Redeem(context.Background(), "alice", 1, 1, requests(ids, "gift card"))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 audit records, got %d", len(records))
	}
	for i, record := range records {
		if record.Memo != "gift card" {
			t.Fatalf("standard delegate memo must be unprefixed, got %q", record.Memo)
		}
		if record.AssetOwner != "holder-1" {
			t.Fatalf("expected asset owner holder-1, got %q", record.AssetOwner)
		}
		if want := fmt.Sprintf("rdm-%04d", ids[i]); record.RedemptionID != want {
			t.Fatalf("expected caller redemption id %q, got %q", want, record.RedemptionID)
		}
	}
	if f.fees.debits != 1 {
		t.Fatalf("flat fee must be debited exactly once per batch, got %d", f.fees.debits)
	}
}

func TestRedeemUnverifiedDelegateTagsMemo(t *testing.T) {
	f := newFixture(entities.DelegateStandard, false)
	ids := f.mint(t, "holder-1", 1)

	records, err := f.service.Redeem(context.Background(), "alice", 1, 1, requests(ids, "gift card"))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if records[0].Memo != "[WARNING] gift card" {
		t.Fatalf("expected warning-tagged memo, got %q", records[0].Memo)
	}
}

// Verify the delegate, redeem without a prefix, withdraw the attestation, and
// redeem again with one.
func TestRedeemVerificationToggleChangesTagging(t *testing.T) {
	f := newFixture(entities.DelegateStandard, true)
	ids := f.mint(t, "holder-1", 2)

	records, err := f.service.Redeem(context.Background(), "alice", 1, 1, requests(ids[:1], "first"))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if strings.HasPrefix(records[0].Memo, entities.WarningPrefix) {
		t.Fatalf("verified delegate must not tag, got %q", records[0].Memo)
	}

	f.bindings.verified = false
	records, err = f.service.Redeem(context.Background(), "alice", 1, 1, requests(ids[1:], "second"))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if records[0].Memo != "[WARNING] second" {
		t.Fatalf("unverified delegate must tag, got %q", records[0].Memo)
	}
}

func TestRedeemPropagatesBindingFailure(t *testing.T) {
	f := newFixture(entities.DelegateStandard, true)
	ids := f.mint(t, "holder-1", 1)

	_, err := f.service.Redeem(context.Background(), "mallory", 1, 1, requests(ids, "x"))
	if !errors.Is(err, errForbidden) {
		t.Fatalf("expected binding failure, got %v", err)
	}
	if f.fees.debits != 0 {
		t.Fatal("failed binding must not debit the fee")
	}
	audits, _ := f.store.ListAuditsByAuthorizer(context.Background(), 1, 10)
	if len(audits) != 0 {
		t.Fatal("failed binding must not write audit records")
	}
}

func TestRedeemInsufficientFeeAbortsBeforeAssetEffects(t *testing.T) {
	f := newFixture(entities.DelegateBurn, true)
	f.fees.balance = 0
	ids := f.mint(t, "holder-1", 1)
	if err := f.assets.Approve(context.Background(), "asset:test", ids[0], "holder-1", entities.DelegateBurn); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	_, err := f.service.Redeem(context.Background(), "alice", 1, 1, requests(ids, "x"))
	if !errors.Is(err, errInsufficientFee) {
		t.Fatalf("expected fee error, got %v", err)
	}
	if _, err := f.assets.OwnerOf(context.Background(), "asset:test", ids[0]); err != nil {
		t.Fatal("asset must survive an aborted batch")
	}
}

func TestRedeemBurnDelegateRequiresApproval(t *testing.T) {
	f := newFixture(entities.DelegateBurn, true)
	ids := f.mint(t, "holder-1", 2)
	// Approve only the first asset; the second must abort the whole batch at
	// precheck, before any burn.
	if err := f.assets.Approve(context.Background(), "asset:test", ids[0], "holder-1", entities.DelegateBurn); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	_, err := f.service.Redeem(context.Background(), "alice", 1, 1, requests(ids, "burn"))
	if !errors.Is(err, domainerrors.ErrInsufficientApproval) {
		t.Fatalf("expected approval error, got %v", err)
	}
	for _, id := range ids {
		if _, err := f.assets.OwnerOf(context.Background(), "asset:test", id); err != nil {
			t.Fatalf("asset %d must survive the aborted batch", id)
		}
	}
	if f.fees.debits != 0 {
		t.Fatal("aborted batch must not debit the fee")
	}
}

func TestRedeemBurnDelegateRetiresAssets(t *testing.T) {
	f := newFixture(entities.DelegateBurn, true)
	ids := f.mint(t, "holder-1", 2)
	for _, id := range ids {
		if err := f.assets.Approve(context.Background(), "asset:test", id, "holder-1", entities.DelegateBurn); err != nil {
			t.Fatalf("approve failed: %v", err)
		}
	}

	records, err := f.service.Redeem(context.Background(), "alice", 1, 1, requests(ids, "burn"))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, id := range ids {
		if _, err := f.assets.OwnerOf(context.Background(), "asset:test", id); !errors.Is(err, domainerrors.ErrUnknownAsset) {
			t.Fatalf("asset %d must be burned, got %v", id, err)
		}
	}
}

// Two batches race on the same authorizer with a prepaid balance covering a
// single flat fee. The per-authorizer lock serializes them: exactly one batch
// succeeds, and the losing batch leaves its asset untouched.
func TestRedeemConcurrentBatchesSameAuthorizer(t *testing.T) {
	f := newFixture(entities.DelegateBurn, true)
	f.fees.balance = 100
	ids := f.mint(t, "holder-1", 2)
	for _, id := range ids {
		if err := f.assets.Approve(context.Background(), "asset:test", id, "holder-1", entities.DelegateBurn); err != nil {
			t.Fatalf("approve failed: %v", err)
		}
	}

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.service.Redeem(context.Background(), "alice", 1, 1, requests(ids[i:i+1], "race"))
		}(i)
	}
	wg.Wait()

	var succeeded, starved int
	for i, err := range results {
		switch {
		case err == nil:
			succeeded++
			if _, err := f.assets.OwnerOf(context.Background(), "asset:test", ids[i]); !errors.Is(err, domainerrors.ErrUnknownAsset) {
				t.Fatalf("winning batch must burn asset %d, got %v", ids[i], err)
			}
		case errors.Is(err, errInsufficientFee):
			starved++
			if _, err := f.assets.OwnerOf(context.Background(), "asset:test", ids[i]); err != nil {
				t.Fatalf("losing batch must not burn asset %d, got %v", ids[i], err)
			}
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || starved != 1 {
		t.Fatalf("expected one winner and one starved batch, got %d/%d", succeeded, starved)
	}
	if f.fees.debits != 1 {
		t.Fatalf("flat fee must be debited exactly once, got %d", f.fees.debits)
	}
}

func TestOutboxRowsWrittenPerRecord(t *testing.T) {
	f := newFixture(entities.DelegateStandard, true)
	ids := f.mint(t, "holder-1", 3)

	if _, err := f.service.Redeem(context.Background(), "alice", 1, 1, requests(ids, "x")); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	pending, err := f.store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 outbox rows, got %d", len(pending))
	}
	seen := map[string]bool{}
	for _, row := range pending {
		if row.Topic != TopicRedemptionAudited {
			t.Fatalf("unexpected topic %q", row.Topic)
		}
		var envelope eventsv1.Envelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		var record entities.AuditRecord
		if err := json.Unmarshal(envelope.Data, &record); err != nil {
			t.Fatalf("decode audit payload: %v", err)
		}
		seen[record.RedemptionID] = true
	}
	for _, id := range ids {
		if want := fmt.Sprintf("rdm-%04d", id); !seen[want] {
			t.Fatalf("outbox envelopes must carry the caller redemption id %q", want)
		}
	}
}
