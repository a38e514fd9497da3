package rpcclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"github.com/helios-labs/go-solana/pkg/crypto/keys"
	"github.com/helios-labs/go-solana/pkg/solrpc"
	"github.com/helios-labs/go-solana/pkg/transaction"
)

// captureClient returns a client whose transport records every request and
// answers each one with the corresponding canned result.
func captureClient(t *testing.T, requests *[]*solrpc.Request, results ...string) *Client {
	c, err := New(context.Background(), "http://localhost:8899", Options{Local: true})
	require.NoError(t, err)
	c.requestF = func(r *solrpc.Request) (*solrpc.Response, error) {
		*requests = append(*requests, r)
		result := "null"
		if len(*requests) <= len(results) {
			result = results[len(*requests)-1]
		}
		return &solrpc.Response{Result: json.RawMessage(result)}, nil
	}
	return c
}

func paramsJSON(t *testing.T, r *solrpc.Request) string {
	b, err := json.Marshal(r.Params)
	require.NoError(t, err)
	return string(b)
}

func TestRPCMethodEnvelopes(t *testing.T) {
	pk, err := keys.NewPublicKeyFromString("11111111111111111111111111111111")
	require.NoError(t, err)
	end := uint64(200)

	cases := []struct {
		name   string
		invoke func(c *Client) (*solrpc.Response, error)
		method string
		params string
	}{
		{"getAccountInfo", func(c *Client) (*solrpc.Response, error) { return c.GetAccountInfo(pk) },
			"getAccountInfo", `["11111111111111111111111111111111"]`},
		{"getBalance", func(c *Client) (*solrpc.Response, error) { return c.GetBalance(pk) },
			"getBalance", `["11111111111111111111111111111111"]`},
		{"getBlock", func(c *Client) (*solrpc.Response, error) { return c.GetBlock(430) },
			"getBlock", `[430]`},
		{"getBlockHeight", func(c *Client) (*solrpc.Response, error) { return c.GetBlockHeight() },
			"getBlockHeight", `[null]`},
		{"getBlockProduction", func(c *Client) (*solrpc.Response, error) { return c.GetBlockProduction() },
			"getBlockProduction", `[null]`},
		{"getBlockCommitment", func(c *Client) (*solrpc.Response, error) { return c.GetBlockCommitment(5) },
			"getBlockCommitment", `[5]`},
		{"getBlocks without end slot", func(c *Client) (*solrpc.Response, error) { return c.GetBlocks(100, nil) },
			"getBlocks", `[100]`},
		{"getBlocks with end slot", func(c *Client) (*solrpc.Response, error) { return c.GetBlocks(100, &end) },
			"getBlocks", `[100,200]`},
		{"getBlocksWithLimit", func(c *Client) (*solrpc.Response, error) { return c.GetBlocksWithLimit(100, 10) },
			"getBlocksWithLimit", `[100,10]`},
		{"getBlockTime", func(c *Client) (*solrpc.Response, error) { return c.GetBlockTime(5) },
			"getBlockTime", `[5]`},
		{"getClusterNodes", func(c *Client) (*solrpc.Response, error) { return c.GetClusterNodes() },
			"getClusterNodes", `[null]`},
		{"getEpochInfo", func(c *Client) (*solrpc.Response, error) { return c.GetEpochInfo() },
			"getEpochInfo", `[null]`},
		{"getEpochSchedule", func(c *Client) (*solrpc.Response, error) { return c.GetEpochSchedule() },
			"getEpochSchedule", `[null]`},
		{"getFeeForMessage", func(c *Client) (*solrpc.Response, error) { return c.GetFeeForMessage("AQABAg==") },
			"getFeeForMessage", `["AQABAg=="]`},
		{"getFees", func(c *Client) (*solrpc.Response, error) { return c.GetFees() },
			"getFees", `[null]`},
		{"getFirstAvailableBlock", func(c *Client) (*solrpc.Response, error) { return c.GetFirstAvailableBlock() },
			"getFirstAvailableBlock", `[null]`},
		{"getSupply", func(c *Client) (*solrpc.Response, error) { return c.GetSupply() },
			"getSupply", `[null]`},
		{"getIdentity", func(c *Client) (*solrpc.Response, error) { return c.GetIdentity() },
			"getIdentity", `[null]`},
		{"getTransaction", func(c *Client) (*solrpc.Response, error) { return c.GetTransaction("5fq") },
			"getTransaction", `["5fq"]`},
		{"getRecentBlockhash", func(c *Client) (*solrpc.Response, error) { return c.GetRecentBlockhash() },
			"getRecentBlockhash", `[null]`},
		{"requestAirdrop", func(c *Client) (*solrpc.Response, error) { return c.RequestAirdrop(pk, 1000000000) },
			"requestAirdrop", `["11111111111111111111111111111111",1000000000]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var requests []*solrpc.Request
			c := captureClient(t, &requests)

			_, err := tc.invoke(c)
			require.NoError(t, err)
			require.Len(t, requests, 1)
			require.Equal(t, solrpc.JSONRPCVersion, requests[0].JSONRPC)
			require.Equal(t, tc.method, requests[0].Method)
			require.JSONEq(t, tc.params, paramsJSON(t, requests[0]))
		})
	}
}

func TestEnvelopesAreStateless(t *testing.T) {
	var requests []*solrpc.Request
	c := captureClient(t, &requests)

	pk, err := keys.NewPublicKeyFromString("11111111111111111111111111111111")
	require.NoError(t, err)
	_, err = c.GetBalance(pk)
	require.NoError(t, err)
	_, err = c.GetBalance(pk)
	require.NoError(t, err)

	require.Len(t, requests, 2)
	require.NotEqual(t, requests[0].ID, requests[1].ID)
	require.Equal(t, requests[0].Method, requests[1].Method)
	require.JSONEq(t, paramsJSON(t, requests[0]), paramsJSON(t, requests[1]))
}

func TestGetTokenAccountsByOwner(t *testing.T) {
	owner, err := keys.NewPublicKeyFromString("11111111111111111111111111111111")
	require.NoError(t, err)
	mint := keys.PublicKey{0x01}
	program := keys.PublicKey{0x02}

	t.Run("no filter", func(t *testing.T) {
		var requests []*solrpc.Request
		c := captureClient(t, &requests)
		_, err := c.GetTokenAccountsByOwner(owner, TokenAccountsFilter{})
		require.ErrorIs(t, err, solrpc.ErrMissingTokenFilter)
		require.Empty(t, requests)
	})
	t.Run("mint filter", func(t *testing.T) {
		var requests []*solrpc.Request
		c := captureClient(t, &requests)
		_, err := c.GetTokenAccountsByOwner(owner, TokenAccountsFilter{Mint: &mint})
		require.NoError(t, err)
		require.Len(t, requests, 1)
		require.JSONEq(t,
			`["`+owner.String()+`",{"mint":"`+mint.String()+`"},{"encoding":"jsonParsed"}]`,
			paramsJSON(t, requests[0]))
	})
	t.Run("program filter", func(t *testing.T) {
		var requests []*solrpc.Request
		c := captureClient(t, &requests)
		_, err := c.GetTokenAccountsByOwner(owner, TokenAccountsFilter{ProgramID: &program, Encoding: "base64"})
		require.NoError(t, err)
		require.Len(t, requests, 1)
		require.JSONEq(t,
			`["`+owner.String()+`",{"programId":"`+program.String()+`"},{"encoding":"base64"}]`,
			paramsJSON(t, requests[0]))
	})
	t.Run("mint wins over program", func(t *testing.T) {
		var requests []*solrpc.Request
		c := captureClient(t, &requests)
		_, err := c.GetTokenAccountsByOwner(owner, TokenAccountsFilter{Mint: &mint, ProgramID: &program})
		require.NoError(t, err)
		require.Len(t, requests, 1)
		require.Contains(t, paramsJSON(t, requests[0]), `"mint"`)
		require.NotContains(t, paramsJSON(t, requests[0]), `"programId"`)
	})
}

func testTransfer(t *testing.T) *transaction.Transaction {
	payer, err := keys.NewKeypair()
	require.NoError(t, err)
	dest, err := keys.NewKeypair()
	require.NoError(t, err)
	return transaction.New(payer, transaction.NewTransferInstruction(payer.PublicKey(), dest.PublicKey(), 100))
}

func testBlockhash() string {
	b := make([]byte, transaction.BlockhashLength)
	for i := range b {
		b[i] = byte(i + 1)
	}
	return base58.Encode(b)
}

func TestSendTransactionFetchesBlockhash(t *testing.T) {
	blockhash := testBlockhash()
	var requests []*solrpc.Request
	c := captureClient(t, &requests,
		`{"context":{"slot":430},"value":{"blockhash":"`+blockhash+`","feeCalculator":{"lamportsPerSignature":5000}}}`)

	tx := testTransfer(t)
	_, err := c.SendTransaction(tx, "")
	require.NoError(t, err)

	require.Len(t, requests, 2)
	require.Equal(t, "getRecentBlockhash", requests[0].Method)
	require.Equal(t, "sendTransaction", requests[1].Method)
	require.Equal(t, blockhash, tx.RecentBlockhash)

	// Submitted payload is the base64 of the signed transaction.
	require.Len(t, requests[1].Params, 2)
	payload, ok := requests[1].Params[0].(string)
	require.True(t, ok)
	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	expected, err := tx.Serialize()
	require.NoError(t, err)
	require.Equal(t, expected, raw)
	require.JSONEq(t, `{"encoding":"base64"}`, func() string {
		b, err := json.Marshal(requests[1].Params[1])
		require.NoError(t, err)
		return string(b)
	}())
}

func TestSendTransactionExplicitBlockhash(t *testing.T) {
	blockhash := testBlockhash()
	var requests []*solrpc.Request
	c := captureClient(t, &requests)

	tx := testTransfer(t)
	_, err := c.SendTransaction(tx, blockhash)
	require.NoError(t, err)

	require.Len(t, requests, 1)
	require.Equal(t, "sendTransaction", requests[0].Method)
	require.Equal(t, blockhash, tx.RecentBlockhash)
}
