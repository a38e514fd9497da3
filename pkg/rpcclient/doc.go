/*
Package rpcclient implements a Solana-specific JSON-RPC 2.0 client.

# Client

After creating a client instance with New you can interact with a Solana
RPC node by the exposed methods. The endpoint given to New must be one of
the public cluster endpoints (MainnetBeta, Devnet, Testnet) unless the
Local option is set, which allows talking to a local development node.

Every method is a single round trip returning the raw response envelope,
the result body is handed to the caller without interpretation.
SendTransaction is the one exception: when no recent blockhash is given it
fetches one first, assigns it to the transaction and has it sign itself
before submission.

# Supported methods

	getAccountInfo
	getBalance
	getBlock
	getBlockCommitment
	getBlockHeight
	getBlockProduction
	getBlockTime
	getBlocks
	getBlocksWithLimit
	getClusterNodes
	getEpochInfo
	getEpochSchedule
	getFeeForMessage
	getFees
	getFirstAvailableBlock
	getIdentity
	getRecentBlockhash
	getSupply
	getTokenAccountsByOwner
	getTransaction
	requestAirdrop
	sendTransaction

# WSClient

WSClient carries the same surface over a persistent websocket connection
and adds the subscription methods (accountSubscribe, slotSubscribe,
signatureSubscribe, logsSubscribe). Subscription events are delivered on
the Notifications channel which the caller must drain.
*/
package rpcclient
