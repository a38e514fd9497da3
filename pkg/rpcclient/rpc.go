package rpcclient

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/helios-labs/go-solana/pkg/crypto/keys"
	"github.com/helios-labs/go-solana/pkg/solrpc"
	"github.com/helios-labs/go-solana/pkg/solrpc/result"
	"github.com/helios-labs/go-solana/pkg/transaction"
)

// noParams is what Solana's parameterless methods are called with: a single
// null entry, carried through to the wire as is.
var noParams = []interface{}{nil}

// encodingParam is the trailing configuration object of calls that take an
// encoding choice.
type encodingParam struct {
	Encoding string `json:"encoding"`
}

// mintFilter and programFilter are the two mutually exclusive account
// filters of getTokenAccountsByOwner.
type (
	mintFilter struct {
		Mint keys.PublicKey `json:"mint"`
	}
	programFilter struct {
		ProgramID keys.PublicKey `json:"programId"`
	}
)

// TokenAccountsFilter narrows a token account lookup to a particular mint
// or to all accounts owned by a program. Exactly one of Mint/ProgramID must
// be set; Mint wins when both are. Encoding defaults to "jsonParsed".
type TokenAccountsFilter struct {
	Mint      *keys.PublicKey
	ProgramID *keys.PublicKey
	Encoding  string
}

// GetAccountInfo returns all information associated with the account of the
// provided public key.
func (c *Client) GetAccountInfo(pk keys.PublicKey) (*solrpc.Response, error) {
	return c.performRequest("getAccountInfo", []interface{}{pk})
}

// GetBalance returns the lamport balance of the account of the provided
// public key.
func (c *Client) GetBalance(pk keys.PublicKey) (*solrpc.Response, error) {
	return c.performRequest("getBalance", []interface{}{pk})
}

// GetBlock returns identity and transaction information about a confirmed
// block by its slot.
func (c *Client) GetBlock(slot uint64) (*solrpc.Response, error) {
	return c.performRequest("getBlock", []interface{}{slot})
}

// GetBlockHeight returns the current block height of the node.
func (c *Client) GetBlockHeight() (*solrpc.Response, error) {
	return c.performRequest("getBlockHeight", noParams)
}

// GetBlockProduction returns recent block production information from the
// current or previous epoch.
func (c *Client) GetBlockProduction() (*solrpc.Response, error) {
	return c.performRequest("getBlockProduction", noParams)
}

// GetBlockCommitment returns the commitment for a particular block.
func (c *Client) GetBlockCommitment(block uint64) (*solrpc.Response, error) {
	return c.performRequest("getBlockCommitment", []interface{}{block})
}

// GetBlocks returns a list of confirmed blocks between startSlot and, when
// given, endSlot.
func (c *Client) GetBlocks(startSlot uint64, endSlot *uint64) (*solrpc.Response, error) {
	params := []interface{}{startSlot}
	if endSlot != nil {
		params = append(params, *endSlot)
	}
	return c.performRequest("getBlocks", params)
}

// GetBlocksWithLimit returns a list of at most limit confirmed blocks
// starting at startSlot.
func (c *Client) GetBlocksWithLimit(startSlot, limit uint64) (*solrpc.Response, error) {
	return c.performRequest("getBlocksWithLimit", []interface{}{startSlot, limit})
}

// GetBlockTime returns the estimated production time of a block as a Unix
// timestamp.
func (c *Client) GetBlockTime(block uint64) (*solrpc.Response, error) {
	return c.performRequest("getBlockTime", []interface{}{block})
}

// GetClusterNodes returns information about all the nodes participating in
// the cluster.
func (c *Client) GetClusterNodes() (*solrpc.Response, error) {
	return c.performRequest("getClusterNodes", noParams)
}

// GetEpochInfo returns information about the current epoch.
func (c *Client) GetEpochInfo() (*solrpc.Response, error) {
	return c.performRequest("getEpochInfo", noParams)
}

// GetEpochSchedule returns the epoch schedule information from the
// cluster's genesis config.
func (c *Client) GetEpochSchedule() (*solrpc.Response, error) {
	return c.performRequest("getEpochSchedule", noParams)
}

// GetFeeForMessage returns the fee the network will charge for the given
// base64-encoded message.
func (c *Client) GetFeeForMessage(message string) (*solrpc.Response, error) {
	return c.performRequest("getFeeForMessage", []interface{}{message})
}

// GetFees returns a recent blockhash from the ledger together with the fee
// schedule it is valid under.
//
// Deprecated: the RPC service is replacing this method with
// getFeeForMessage, use GetFeeForMessage against nodes that no longer
// serve it.
func (c *Client) GetFees() (*solrpc.Response, error) {
	return c.performRequest("getFees", noParams)
}

// GetFirstAvailableBlock returns the slot of the lowest confirmed block not
// purged from the ledger.
func (c *Client) GetFirstAvailableBlock() (*solrpc.Response, error) {
	return c.performRequest("getFirstAvailableBlock", noParams)
}

// GetSupply returns information about the current supply.
func (c *Client) GetSupply() (*solrpc.Response, error) {
	return c.performRequest("getSupply", noParams)
}

// GetIdentity returns the identity public key of the node.
func (c *Client) GetIdentity() (*solrpc.Response, error) {
	return c.performRequest("getIdentity", noParams)
}

// GetTransaction returns the details of a confirmed transaction by its
// signature.
func (c *Client) GetTransaction(signature string) (*solrpc.Response, error) {
	return c.performRequest("getTransaction", []interface{}{signature})
}

// GetRecentBlockhash returns a recent blockhash from the ledger.
func (c *Client) GetRecentBlockhash() (*solrpc.Response, error) {
	return c.performRequest("getRecentBlockhash", noParams)
}

// GetTokenAccountsByOwner returns all token accounts owned by the given
// account, narrowed by the filter. It fails with
// solrpc.ErrMissingTokenFilter when the filter carries neither a mint nor
// a program.
func (c *Client) GetTokenAccountsByOwner(owner keys.PublicKey, filter TokenAccountsFilter) (*solrpc.Response, error) {
	var account interface{}
	switch {
	case filter.Mint != nil:
		account = mintFilter{Mint: *filter.Mint}
	case filter.ProgramID != nil:
		account = programFilter{ProgramID: *filter.ProgramID}
	default:
		return nil, solrpc.ErrMissingTokenFilter
	}
	encoding := filter.Encoding
	if encoding == "" {
		encoding = "jsonParsed"
	}
	params := []interface{}{owner, account, encodingParam{Encoding: encoding}}
	return c.performRequest("getTokenAccountsByOwner", params)
}

// RequestAirdrop requests an airdrop of lamports to the account of the
// provided public key. Airdrops are only served by development clusters.
func (c *Client) RequestAirdrop(pk keys.PublicKey, lamports uint64) (*solrpc.Response, error) {
	return c.performRequest("requestAirdrop", []interface{}{pk, lamports})
}

// SendTransaction signs, serializes and submits the given transaction.
// When recentBlockhash is empty, a fresh one is fetched from the node
// first; either way the hash is assigned to the transaction before it
// signs itself. The submitted payload is base64-encoded.
func (c *Client) SendTransaction(tx *transaction.Transaction, recentBlockhash string) (*solrpc.Response, error) {
	if recentBlockhash == "" {
		resp, err := c.GetRecentBlockhash()
		if err != nil {
			return nil, fmt.Errorf("blockhash fetch: %w", err)
		}
		var bh result.RecentBlockhash
		if err := json.Unmarshal(resp.Result, &bh); err != nil {
			return nil, fmt.Errorf("blockhash decoding: %w", err)
		}
		recentBlockhash = bh.Value.Blockhash
	}

	tx.RecentBlockhash = recentBlockhash
	if err := tx.Sign(); err != nil {
		return nil, err
	}
	raw, err := tx.Serialize()
	if err != nil {
		return nil, err
	}

	params := []interface{}{base64.StdEncoding.EncodeToString(raw), encodingParam{Encoding: "base64"}}
	return c.performRequest("sendTransaction", params)
}
