// Command whiteflagconfirm runs a single white-flag confirmation pass over a
// demo snapshot file and prints the resulting metadata. It exists to
// exercise the four components end to end; it is not a node, and it carries
// none of the gossip, REST, or milestone-production machinery those would need.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/daglabs/whiteflag/domain/consensus/model/externalapi"
	"github.com/daglabs/whiteflag/domain/consensus/processes/confirmationmanager"
	"github.com/daglabs/whiteflag/domain/consensus/processes/dagtraversalmanager"
	"github.com/daglabs/whiteflag/domain/consensus/processes/transactionvalidator"
	"github.com/daglabs/whiteflag/internal/logs"
	"github.com/daglabs/whiteflag/internal/storage/leveldbstore"
	"github.com/daglabs/whiteflag/internal/tangle/memorytangle"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "whiteflagconfirm: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	logs.InitLogRotator(cfg.DataDir + "/whiteflagconfirm.log")
	if err := logs.ParseAndSetDebugLevels(cfg.LogLevel); err != nil {
		return err
	}

	snapshot, err := loadSnapshotFile(cfg.SnapshotFile)
	if err != nil {
		return err
	}

	store, err := leveldbstore.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	tangle := memorytangle.New()

	for _, hexID := range snapshot.SolidEntryPoints {
		id, err := parseMessageId(hexID)
		if err != nil {
			return err
		}
		tangle.AddSolidEntryPoint(id)
	}

	for _, sm := range snapshot.Messages {
		message, err := buildMessage(sm)
		if err != nil {
			return errors.Wrapf(err, "message %s", sm.Id)
		}
		tangle.AddMessage(message)
	}

	for _, so := range snapshot.SeedOutputs {
		outputID, err := parseOutputId(so.OutputId)
		if err != nil {
			return err
		}
		output, err := buildOutput(so)
		if err != nil {
			return err
		}
		if err := store.SeedOutput(outputID, output); err != nil {
			return err
		}
	}

	tips := make([]externalapi.MessageId, len(snapshot.Tips))
	for i, hexID := range snapshot.Tips {
		id, err := parseMessageId(hexID)
		if err != nil {
			return err
		}
		tips[i] = id
	}

	validator := transactionvalidator.New(store)
	traversal := dagtraversalmanager.New(tangle, validator)
	confirmation := confirmationmanager.New(traversal)

	metadata := externalapi.NewWhiteFlagMetadata(externalapi.MilestoneIndex(snapshot.MilestoneIndex))

	logs.WhiteFlagLog.Infof("running white-flag pass for milestone %d over %d tips", snapshot.MilestoneIndex, len(tips))
	if err := confirmation.WhiteFlag(tips, metadata); err != nil {
		return err
	}

	if err := store.CommitMilestone(metadata); err != nil {
		return err
	}

	printSummary(metadata)
	return nil
}

func buildMessage(sm snapshotMessage) (*externalapi.Message, error) {
	id, err := parseMessageId(sm.Id)
	if err != nil {
		return nil, err
	}

	parents := make([]externalapi.MessageId, len(sm.Parents))
	for i, hexID := range sm.Parents {
		parentID, err := parseMessageId(hexID)
		if err != nil {
			return nil, err
		}
		parents[i] = parentID
	}

	var payload externalapi.Payload = &externalapi.IndexationPayload{}
	if sm.Transaction != nil {
		tx, err := buildTransactionPayload(sm.Transaction)
		if err != nil {
			return nil, err
		}
		payload = tx
	}

	return &externalapi.Message{Id: id, Parents: parents, Payload: payload}, nil
}

func printSummary(metadata *externalapi.WhiteFlagMetadata) {
	fmt.Printf("milestone:            %d\n", metadata.Index)
	fmt.Printf("referenced messages:  %d\n", metadata.ReferencedMessages)
	fmt.Printf("included messages:    %d\n", len(metadata.IncludedMessages))
	fmt.Printf("excluded (conflict):  %d\n", len(metadata.ExcludedConflictingMessages))
	fmt.Printf("excluded (no tx):     %d\n", len(metadata.ExcludedNoTransactionMessages))
	fmt.Printf("merkle proof:         %s\n", hex.EncodeToString(metadata.MerkleProof[:]))
	for _, excluded := range metadata.ExcludedConflictingMessages {
		fmt.Printf("  conflict: %s -> %s\n", excluded.MessageId, excluded.ConflictReason)
	}
}
