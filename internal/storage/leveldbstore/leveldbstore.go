// Package leveldbstore is a model.Storage implementation backed by
// goleveldb, the same on-disk key/value engine the teacher's ffldb driver
// wraps (domain/ffldb/ldb). Outputs and balances are addressed by flat,
// prefixed keys; there is no need for ffldb's block-file paging here because
// a white-flag pass only ever needs point lookups.
package leveldbstore

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/daglabs/whiteflag/domain/consensus/model/externalapi"
	wferrors "github.com/daglabs/whiteflag/domain/errors"
	"github.com/daglabs/whiteflag/internal/logs"
)

var (
	outputPrefix  = []byte{0x01}
	spentPrefix   = []byte{0x02}
	balancePrefix = []byte{0x03}
)

// LevelDBStore is the concrete, on-disk-backed model.Storage.
type LevelDBStore struct {
	db *leveldb.DB
}

// Open opens (creating if necessary) a LevelDB store at path.
func Open(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open leveldb store at %s", path)
	}
	logs.StorageLog.Infof("opened leveldb store at %s", path)
	return &LevelDBStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

func outputKey(id externalapi.OutputId) []byte {
	return append(append([]byte{}, outputPrefix...), serializeOutputID(id)...)
}

func spentKey(id externalapi.OutputId) []byte {
	return append(append([]byte{}, spentPrefix...), serializeOutputID(id)...)
}

func balanceKey(address externalapi.Address) []byte {
	return append(append([]byte{}, balancePrefix...), []byte(address.String())...)
}

func serializeOutputID(id externalapi.OutputId) []byte {
	buf := make([]byte, len(id.TransactionId)+2)
	copy(buf, id.TransactionId[:])
	binary.BigEndian.PutUint16(buf[len(id.TransactionId):], id.Index)
	return buf
}

// FetchOutput implements model.Storage.
func (s *LevelDBStore) FetchOutput(outputID externalapi.OutputId) (externalapi.Output, bool, error) {
	raw, err := s.db.Get(outputKey(outputID), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to fetch output")
	}
	output, err := deserializeOutput(raw)
	if err != nil {
		return nil, false, err
	}
	return output, true, nil
}

// IsOutputUnspent implements model.Storage. An output that was never stored
// in the first place is, by convention, also reported as unspent: the
// caller (transactionvalidator) only calls this after FetchOutput already
// confirmed existence.
func (s *LevelDBStore) IsOutputUnspent(outputID externalapi.OutputId) (bool, error) {
	has, err := s.db.Has(spentKey(outputID), nil)
	if err != nil {
		return false, errors.Wrap(err, "failed to check spent marker")
	}
	return !has, nil
}

// FetchBalanceOrDefault implements model.Storage.
func (s *LevelDBStore) FetchBalanceOrDefault(address externalapi.Address) (externalapi.Balance, error) {
	raw, err := s.db.Get(balanceKey(address), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return externalapi.Balance{}, nil
	}
	if err != nil {
		return externalapi.Balance{}, errors.Wrap(err, "failed to fetch balance")
	}
	return deserializeBalance(raw)
}

// SeedOutput writes output directly under outputID, bypassing the milestone
// commit path. It exists for bootstrapping a store with pre-existing UTXOs
// (genesis allocations, a loaded snapshot) rather than outputs this core
// itself confirmed.
func (s *LevelDBStore) SeedOutput(outputID externalapi.OutputId, output externalapi.Output) error {
	raw, err := serializeOutput(output)
	if err != nil {
		return err
	}
	if err := s.db.Put(outputKey(outputID), raw, nil); err != nil {
		return errors.Wrap(err, "failed to seed output")
	}
	return nil
}

// CommitMilestone persists a confirmed milestone's effects: every created
// output, a spent marker for every consumed one, and the new balance for
// every address the pass touched. All writes land in a single batch so a
// crash mid-commit never leaves the store half-updated.
func (s *LevelDBStore) CommitMilestone(metadata *externalapi.WhiteFlagMetadata) error {
	batch := new(leveldb.Batch)

	for outputID, created := range metadata.CreatedOutputs {
		raw, err := serializeOutput(created.Output)
		if err != nil {
			return err
		}
		batch.Put(outputKey(outputID), raw)
	}

	for outputID := range metadata.ConsumedOutputs {
		batch.Put(spentKey(outputID), []byte{1})
	}

	err := metadata.BalanceDiffs.Iterate(func(address externalapi.Address, diff *externalapi.BalanceDiff) error {
		persisted, err := s.FetchBalanceOrDefault(address)
		if err != nil {
			return err
		}
		newBalance, err := persisted.ApplyDiff(diff)
		if err != nil {
			return err
		}
		batch.Put(balanceKey(address), serializeBalance(newBalance))
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.db.Write(batch, nil); err != nil {
		return wferrors.Storage(err)
	}
	logs.StorageLog.Debugf("committed milestone %d: %d created outputs, %d consumed",
		metadata.Index, len(metadata.CreatedOutputs), len(metadata.ConsumedOutputs))
	return nil
}

func serializeOutput(output externalapi.Output) ([]byte, error) {
	address := output.GetAddress()
	buf := make([]byte, 1+externalapi.AddressSize+8)
	buf[0] = byte(output.Kind())
	copy(buf[1:], address.Bytes())
	binary.BigEndian.PutUint64(buf[1+externalapi.AddressSize:], output.GetAmount())
	return buf, nil
}

func deserializeOutput(raw []byte) (externalapi.Output, error) {
	if len(raw) != 1+externalapi.AddressSize+8 {
		return nil, errors.Errorf("malformed output record: %d bytes", len(raw))
	}
	kind := externalapi.OutputKind(raw[0])
	address := externalapi.AddressFromBytes(raw[1 : 1+externalapi.AddressSize])
	amount := binary.BigEndian.Uint64(raw[1+externalapi.AddressSize:])

	switch kind {
	case externalapi.OutputKindSignatureLockedSingle:
		return &externalapi.SignatureLockedSingleOutput{Address: address, Amount: amount}, nil
	case externalapi.OutputKindSignatureLockedDustAllowance:
		return &externalapi.SignatureLockedDustAllowanceOutput{Address: address, Amount: amount}, nil
	default:
		return &externalapi.UnknownOutput{OutputKind: raw[0]}, nil
	}
}

func serializeBalance(balance externalapi.Balance) []byte {
	buf := make([]byte, 24)
	binary.BigEndian.PutUint64(buf[0:8], balance.Amount)
	binary.BigEndian.PutUint64(buf[8:16], balance.DustAllowance)
	binary.BigEndian.PutUint64(buf[16:24], balance.DustOutputs)
	return buf
}

func deserializeBalance(raw []byte) (externalapi.Balance, error) {
	if len(raw) != 24 {
		return externalapi.Balance{}, errors.Errorf("malformed balance record: %d bytes", len(raw))
	}
	return externalapi.Balance{
		Amount:        binary.BigEndian.Uint64(raw[0:8]),
		DustAllowance: binary.BigEndian.Uint64(raw[8:16]),
		DustOutputs:   binary.BigEndian.Uint64(raw[16:24]),
	}, nil
}
