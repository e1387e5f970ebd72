package nearledger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"launchpad_go/internal/domain"
	"launchpad_go/internal/infra"
	"launchpad_go/internal/workflow"
)

func testClient(url string) *Client {
	cfg := &infra.Config{}
	cfg.Ledger.RPCURL = url
	cfg.Ledger.Namespace = "launchpad.near"
	return NewClient(cfg)
}

func provisionStage() workflow.Stage {
	return workflow.Stage{
		Name:      workflow.StageProvision,
		Receiver:  "abc-1.launchpad.near",
		Provision: &workflow.Provision{CodeHash: "testhash", Funding: domain.NewAmount(777)},
		Calls: []workflow.Call{
			{Method: "new", Args: []byte(`{"owner_id":"launchpad.near"}`), GasTgas: 30},
		},
	}
}

func TestSubmit(t *testing.T) {
	var got submitParams
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Method != "send_tx" {
			t.Errorf("expected send_tx, got %s", req.Method)
		}
		raw, _ := json.Marshal(req.Params)
		json.Unmarshal(raw, &got)
		w.Write([]byte(`{"result":{"status":"dispatched"}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if err := c.Submit(context.Background(), provisionStage()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if got.SignerID != "launchpad.near" || got.ReceiverID != "abc-1.launchpad.near" {
		t.Errorf("unexpected routing: %+v", got)
	}
	// CreateAccount + UseGlobalContract + Transfer + FunctionCall
	if len(got.Actions) != 4 {
		t.Fatalf("expected 4 actions, got %d", len(got.Actions))
	}
	if got.Actions[1].CodeHash != "testhash" {
		t.Errorf("code hash: %s", got.Actions[1].CodeHash)
	}
	if got.Actions[2].Deposit != "777" {
		t.Errorf("leftover transfer: %s", got.Actions[2].Deposit)
	}
	if got.Actions[3].Gas != 30*tgas {
		t.Errorf("gas: %d", got.Actions[3].Gas)
	}
}

func TestSubmitSignsPayload(t *testing.T) {
	const key = "ed25519:testkey"
	var gotSigner, gotSig, wantSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read body: %v", err)
		}
		gotSigner = r.Header.Get("X-Signer-Id")
		gotSig = r.Header.Get("X-Signature")
		wantSig = signPayload(body, key)
		w.Write([]byte(`{"result":{}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.signingKey = key
	if err := c.Submit(context.Background(), provisionStage()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if gotSigner != "launchpad.near" {
		t.Errorf("signer header: %q", gotSigner)
	}
	if gotSig == "" || gotSig != wantSig {
		t.Errorf("signature does not verify against the body: got %q, want %q", gotSig, wantSig)
	}
}

func TestSubmitRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"code":-32000,"message":"account exists"}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if err := c.Submit(context.Background(), provisionStage()); err == nil {
		t.Error("expected error from rpc error response")
	}
}

func TestTransfer(t *testing.T) {
	var got submitParams
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		raw, _ := json.Marshal(req.Params)
		json.Unmarshal(raw, &got)
		w.Write([]byte(`{"result":{}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if err := c.Transfer(context.Background(), "ops.near", "1000"); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if len(got.Actions) != 1 || got.Actions[0].Type != "Transfer" || got.Actions[0].Deposit != "1000" {
		t.Errorf("unexpected actions: %+v", got.Actions)
	}
}
