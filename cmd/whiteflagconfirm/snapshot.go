package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/daglabs/whiteflag/domain/consensus/model/externalapi"
)

// snapshotFile is the demo-only JSON shape loaded by this CLI in place of a
// real gossip-fed tangle and a populated storage backend (spec §1/§2
// Non-goals explicitly exclude the network layer and the real snapshot
// format; this one exists solely to drive a single pass end to end).
type snapshotFile struct {
	MilestoneIndex   uint32            `json:"milestone_index"`
	Tips             []string          `json:"tips"`
	SolidEntryPoints []string          `json:"solid_entry_points"`
	Messages         []snapshotMessage `json:"messages"`
	SeedOutputs      []snapshotOutput  `json:"seed_outputs"`
}

type snapshotMessage struct {
	Id          string               `json:"id"`
	Parents     []string             `json:"parents"`
	Transaction *snapshotTransaction `json:"transaction,omitempty"`
}

type snapshotTransaction struct {
	Inputs       []snapshotInput       `json:"inputs"`
	Outputs      []snapshotOutput      `json:"outputs"`
	UnlockBlocks []snapshotUnlockBlock `json:"unlock_blocks"`
}

type snapshotInput struct {
	OutputId string `json:"output_id"`
}

type snapshotOutput struct {
	OutputId string `json:"output_id,omitempty"`
	Kind     string `json:"kind"`
	Address  string `json:"address"`
	Amount   uint64 `json:"amount"`
}

type snapshotUnlockBlock struct {
	Kind      string `json:"kind"`
	Signature string `json:"signature,omitempty"`
	Reference uint16 `json:"reference,omitempty"`
}

func loadSnapshotFile(path string) (*snapshotFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read snapshot file %s", path)
	}
	var snapshot snapshotFile
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, errors.Wrapf(err, "failed to parse snapshot file %s", path)
	}
	return &snapshot, nil
}

func parseMessageId(hexStr string) (externalapi.MessageId, error) {
	var id externalapi.MessageId
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return id, errors.Wrapf(err, "invalid message id %q", hexStr)
	}
	if len(raw) != len(id) {
		return id, errors.Errorf("message id %q must be %d bytes, got %d", hexStr, len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

func parseOutputId(s string) (externalapi.OutputId, error) {
	var outputID externalapi.OutputId
	// Format: "<64 hex chars transaction id>:<decimal index>"
	txIDLen := len(outputID.TransactionId) * 2
	if len(s) < txIDLen+2 || s[txIDLen] != ':' {
		return outputID, errors.Errorf("invalid output id %q", s)
	}
	txIDHex := s[:txIDLen]
	indexStr := s[txIDLen+1:]

	raw, err := hex.DecodeString(txIDHex)
	if err != nil {
		return outputID, errors.Wrapf(err, "invalid transaction id in output id %q", s)
	}
	copy(outputID.TransactionId[:], raw)

	var index uint16
	n, err := fmt.Sscan(indexStr, &index)
	if err != nil || n != 1 || strconv.Itoa(int(index)) != indexStr {
		return outputID, errors.Errorf("invalid index in output id %q", s)
	}
	outputID.Index = index

	return outputID, nil
}

func parseAddress(hexStr string) (externalapi.Address, error) {
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return externalapi.Address{}, errors.Wrapf(err, "invalid address %q", hexStr)
	}
	if len(raw) != externalapi.AddressSize {
		return externalapi.Address{}, errors.Errorf("address %q must be %d bytes, got %d", hexStr, externalapi.AddressSize, len(raw))
	}
	return externalapi.AddressFromBytes(raw), nil
}

func buildOutput(so snapshotOutput) (externalapi.Output, error) {
	address, err := parseAddress(so.Address)
	if err != nil {
		return nil, err
	}
	switch so.Kind {
	case "single":
		return &externalapi.SignatureLockedSingleOutput{Address: address, Amount: so.Amount}, nil
	case "dust_allowance":
		return &externalapi.SignatureLockedDustAllowanceOutput{Address: address, Amount: so.Amount}, nil
	default:
		return nil, errors.Errorf("unrecognized output kind %q", so.Kind)
	}
}

func buildUnlockBlock(sub snapshotUnlockBlock) (externalapi.UnlockBlock, error) {
	switch sub.Kind {
	case "signature":
		signature, err := hex.DecodeString(sub.Signature)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid signature %q", sub.Signature)
		}
		return &externalapi.SignatureUnlockBlock{Signature: signature}, nil
	case "reference":
		return &externalapi.ReferenceUnlockBlock{Reference: sub.Reference}, nil
	default:
		return nil, errors.Errorf("unrecognized unlock block kind %q", sub.Kind)
	}
}

func buildTransactionPayload(st *snapshotTransaction) (*externalapi.TransactionPayload, error) {
	inputs := make([]externalapi.Input, len(st.Inputs))
	for i, si := range st.Inputs {
		outputID, err := parseOutputId(si.OutputId)
		if err != nil {
			return nil, err
		}
		inputs[i] = &externalapi.UtxoInput{OutputId: outputID}
	}

	outputs := make([]externalapi.Output, len(st.Outputs))
	for i, so := range st.Outputs {
		output, err := buildOutput(so)
		if err != nil {
			return nil, err
		}
		outputs[i] = output
	}

	unlockBlocks := make([]externalapi.UnlockBlock, len(st.UnlockBlocks))
	for i, sub := range st.UnlockBlocks {
		unlockBlock, err := buildUnlockBlock(sub)
		if err != nil {
			return nil, err
		}
		unlockBlocks[i] = unlockBlock
	}

	essence := &externalapi.RegularEssence{Inputs: inputs, Outputs: outputs}
	return externalapi.NewTransactionPayload(essence, unlockBlocks), nil
}
