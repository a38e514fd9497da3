/*
Package transaction implements the legacy Solana transaction format:
instruction assembly, message compilation, ed25519 signing and base64
serialization for submission over RPC.
*/
package transaction

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/helios-labs/go-solana/pkg/crypto/keys"
)

// BlockhashLength is the length of a decoded blockhash in bytes.
const BlockhashLength = 32

// AccountMeta describes how an instruction touches an account.
type AccountMeta struct {
	PublicKey  keys.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a single program invocation within a transaction.
type Instruction struct {
	ProgramID keys.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Transaction is a set of instructions executed atomically. A transaction
// must reference a recent blockhash and be signed by its fee payer (and any
// other required signers) before serialization.
type Transaction struct {
	Instructions []Instruction
	// RecentBlockhash is the base58 replay-protection anchor. The RPC
	// client fills it in before signing when the caller left it empty.
	RecentBlockhash string

	payer      *keys.Keypair
	signers    []*keys.Keypair
	signatures [][]byte
	message    []byte
}

// New returns a transaction paying its fees from payer and executing the
// given instructions in order.
func New(payer *keys.Keypair, instrs ...Instruction) *Transaction {
	return &Transaction{
		Instructions: instrs,
		payer:        payer,
		signers:      []*keys.Keypair{payer},
	}
}

// AddInstruction appends an instruction to the transaction. Appending after
// Sign invalidates previously produced signatures.
func (t *Transaction) AddInstruction(in Instruction) {
	t.Instructions = append(t.Instructions, in)
	t.signatures = nil
	t.message = nil
}

// AddSigner registers an additional keypair that must sign the transaction.
func (t *Transaction) AddSigner(kp *keys.Keypair) {
	for _, s := range t.signers {
		if s.PublicKey().Equals(kp.PublicKey()) {
			return
		}
	}
	t.signers = append(t.signers, kp)
}

// FeePayer returns the public key the transaction fees are paid from.
func (t *Transaction) FeePayer() keys.PublicKey {
	return t.payer.PublicKey()
}

// compiledAccount is an account entry merged across all instructions.
type compiledAccount struct {
	key      keys.PublicKey
	signer   bool
	writable bool
}

// compileAccounts merges account metas from every instruction (program IDs
// included as read-only non-signers) and orders them the way the message
// header requires: writable signers, read-only signers, writable
// non-signers, read-only non-signers, with the fee payer always first.
func (t *Transaction) compileAccounts() []compiledAccount {
	var accounts []compiledAccount
	index := make(map[keys.PublicKey]int)

	upsert := func(key keys.PublicKey, signer, writable bool) {
		if i, ok := index[key]; ok {
			accounts[i].signer = accounts[i].signer || signer
			accounts[i].writable = accounts[i].writable || writable
			return
		}
		index[key] = len(accounts)
		accounts = append(accounts, compiledAccount{key: key, signer: signer, writable: writable})
	}

	upsert(t.payer.PublicKey(), true, true)
	for _, s := range t.signers {
		upsert(s.PublicKey(), true, false)
	}
	for _, in := range t.Instructions {
		for _, m := range in.Accounts {
			upsert(m.PublicKey, m.IsSigner, m.IsWritable)
		}
		upsert(in.ProgramID, false, false)
	}

	payer := t.payer.PublicKey()
	ordered := make([]compiledAccount, 0, len(accounts))
	pick := func(match func(compiledAccount) bool) {
		for _, a := range accounts {
			if a.key.Equals(payer) {
				continue
			}
			if match(a) {
				ordered = append(ordered, a)
			}
		}
	}
	ordered = append(ordered, compiledAccount{key: payer, signer: true, writable: true})
	pick(func(a compiledAccount) bool { return a.signer && a.writable })
	pick(func(a compiledAccount) bool { return a.signer && !a.writable })
	pick(func(a compiledAccount) bool { return !a.signer && a.writable })
	pick(func(a compiledAccount) bool { return !a.signer && !a.writable })
	return ordered
}

// compileMessage produces the binary message: header, account table,
// blockhash and compiled instructions with their account indices.
func (t *Transaction) compileMessage() ([]byte, error) {
	if t.RecentBlockhash == "" {
		return nil, errors.New("transaction has no recent blockhash")
	}
	blockhash, err := base58.Decode(t.RecentBlockhash)
	if err != nil {
		return nil, fmt.Errorf("invalid blockhash: %w", err)
	}
	if len(blockhash) != BlockhashLength {
		return nil, fmt.Errorf("invalid blockhash length: expected %d bytes got %d", BlockhashLength, len(blockhash))
	}

	accounts := t.compileAccounts()
	// Account references are single-byte indices.
	if len(accounts) > 256 {
		return nil, fmt.Errorf("too many accounts: %d", len(accounts))
	}
	index := make(map[keys.PublicKey]int, len(accounts))
	var numSigned, numSignedRO, numUnsignedRO int
	for i, a := range accounts {
		index[a.key] = i
		switch {
		case a.signer:
			numSigned++
			if !a.writable {
				numSignedRO++
			}
		case !a.writable:
			numUnsignedRO++
		}
	}

	buf := new(bytes.Buffer)
	buf.WriteByte(byte(numSigned))
	buf.WriteByte(byte(numSignedRO))
	buf.WriteByte(byte(numUnsignedRO))
	writeShortVecLen(buf, len(accounts))
	for _, a := range accounts {
		buf.Write(a.key.Bytes())
	}
	buf.Write(blockhash)
	writeShortVecLen(buf, len(t.Instructions))
	for _, in := range t.Instructions {
		buf.WriteByte(byte(index[in.ProgramID]))
		writeShortVecLen(buf, len(in.Accounts))
		for _, m := range in.Accounts {
			buf.WriteByte(byte(index[m.PublicKey]))
		}
		writeShortVecLen(buf, len(in.Data))
		buf.Write(in.Data)
	}
	return buf.Bytes(), nil
}

// Sign compiles the message and signs it with every registered signer, in
// the account order established by the message header.
func (t *Transaction) Sign() error {
	msg, err := t.compileMessage()
	if err != nil {
		return err
	}

	numSigned := int(msg[0])
	accounts := t.compileAccounts()
	sigs := make([][]byte, numSigned)
	for i := 0; i < numSigned; i++ {
		kp := t.signerFor(accounts[i].key)
		if kp == nil {
			return fmt.Errorf("missing signer for account %s", accounts[i].key)
		}
		sigs[i] = kp.Sign(msg)
	}

	t.message = msg
	t.signatures = sigs
	return nil
}

func (t *Transaction) signerFor(key keys.PublicKey) *keys.Keypair {
	for _, s := range t.signers {
		if s.PublicKey().Equals(key) {
			return s
		}
	}
	return nil
}

// Serialize returns the signed transaction as raw wire bytes: signature
// table followed by the compiled message. Sign must have been called.
func (t *Transaction) Serialize() ([]byte, error) {
	if t.signatures == nil || t.message == nil {
		return nil, errors.New("transaction is not signed")
	}
	buf := new(bytes.Buffer)
	writeShortVecLen(buf, len(t.signatures))
	for _, sig := range t.signatures {
		buf.Write(sig)
	}
	buf.Write(t.message)
	return buf.Bytes(), nil
}
