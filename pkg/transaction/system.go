package transaction

import (
	"bytes"
	"encoding/binary"

	"github.com/helios-labs/go-solana/pkg/crypto/keys"
)

// SystemProgramID is the well-known address of the system program.
var SystemProgramID = keys.PublicKey{}

const transferInstructionIndex = 2

// NewTransferInstruction builds a system-program instruction moving
// lamports from one account to another. The sending account must sign the
// enclosing transaction.
func NewTransferInstruction(from, to keys.PublicKey, lamports uint64) Instruction {
	data := new(bytes.Buffer)
	binary.Write(data, binary.LittleEndian, uint32(transferInstructionIndex))
	binary.Write(data, binary.LittleEndian, lamports)
	return Instruction{
		ProgramID: SystemProgramID,
		Accounts: []AccountMeta{
			{PublicKey: from, IsSigner: true, IsWritable: true},
			{PublicKey: to, IsSigner: false, IsWritable: true},
		},
		Data: data.Bytes(),
	}
}
