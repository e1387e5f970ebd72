// Package nearledger submits signed transactions to a ledger RPC node. The
// ledger's storage and billing mechanics are consumed only through this
// documented call surface.
package nearledger

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"launchpad_go/internal/infra"
	"launchpad_go/internal/workflow"
)

// tgas is one teragas in gas units.
const tgas = 1_000_000_000_000

// Client is the ledger RPC client (boundary layer).
type Client struct {
	rpcURL     string
	signerID   string
	signingKey string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a ledger client signing as the orchestrator's own
// account.
func NewClient(cfg *infra.Config) *Client {
	return &Client{
		rpcURL:     cfg.Ledger.RPCURL,
		signerID:   cfg.Ledger.Namespace,
		signingKey: cfg.Ledger.SigningKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		logger: slog.Default().With("module", "nearledger"),
	}
}

// action is the wire form of one transaction action.
type action struct {
	Type       string `json:"type"`
	CodeHash   string `json:"code_hash,omitempty"`
	Deposit    string `json:"deposit,omitempty"`
	MethodName string `json:"method_name,omitempty"`
	Args       string `json:"args,omitempty"` // base64
	Gas        uint64 `json:"gas,omitempty"`
}

type submitParams struct {
	SignerID   string   `json:"signer_id"`
	ReceiverID string   `json:"receiver_id"`
	Actions    []action `json:"actions"`
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Submit sends one compiled stage as a single transaction to its receiver.
// Returning nil means the transaction was accepted for execution, not that
// the calls succeeded; the orchestrator never observes their outcome.
func (c *Client) Submit(ctx context.Context, stage workflow.Stage) error {
	actions := stageActions(stage)

	resp, err := c.doRequest(ctx, "send_tx", submitParams{
		SignerID:   c.signerID,
		ReceiverID: stage.Receiver,
		Actions:    actions,
	})
	if err != nil {
		return fmt.Errorf("ledger submit failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ledger rpc error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(bodyBytes, &rpcResp); err != nil {
		return fmt.Errorf("failed to parse rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("ledger rpc error: code=%d msg=%s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	c.logger.Info("Stage submitted", "stage", stage.Name, "receiver", stage.Receiver, "actions", len(actions))
	return nil
}

// Transfer schedules a bare value transfer (used by the fee withdrawal).
func (c *Client) Transfer(ctx context.Context, recipient, yocto string) error {
	resp, err := c.doRequest(ctx, "send_tx", submitParams{
		SignerID:   c.signerID,
		ReceiverID: recipient,
		Actions:    []action{{Type: "Transfer", Deposit: yocto}},
	})
	if err != nil {
		return fmt.Errorf("ledger transfer failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ledger rpc error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}
	var rpcResp rpcResponse
	if err := json.Unmarshal(bodyBytes, &rpcResp); err != nil {
		return fmt.Errorf("failed to parse rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("ledger rpc error: code=%d msg=%s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return nil
}

// stageActions lowers a compiled stage to wire actions. The provision stage
// prepends account creation, code installation and the leftover transfer.
func stageActions(stage workflow.Stage) []action {
	var actions []action
	if p := stage.Provision; p != nil {
		actions = append(actions,
			action{Type: "CreateAccount"},
			action{Type: "UseGlobalContract", CodeHash: p.CodeHash},
			action{Type: "Transfer", Deposit: p.Funding.String()},
		)
	}
	for _, call := range stage.Calls {
		actions = append(actions, action{
			Type:       "FunctionCall",
			MethodName: call.Method,
			Args:       base64.StdEncoding.EncodeToString(call.Args),
			Deposit:    call.Deposit.String(),
			Gas:        call.GasTgas * tgas,
		})
	}
	return actions
}

// doRequest handles JSON-RPC framing.
func (c *Client) doRequest(ctx context.Context, method string, params interface{}) (*http.Response, error) {
	jsonBytes, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "launchpad",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.rpcURL, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.signingKey != "" {
		req.Header.Set("X-Signer-Id", c.signerID)
		req.Header.Set("X-Signature", signPayload(jsonBytes, c.signingKey))
	}

	return c.httpClient.Do(req)
}

// signPayload authenticates the request body with the account's signing
// key. The node verifies the signature against the signer id before
// accepting the transaction.
func signPayload(payload []byte, key string) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write(payload)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
