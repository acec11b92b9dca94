package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/chainvault-network/custodian/eth"
	"github.com/chainvault-network/custodian/wallet"
)

var (
	// ErrAccountNotFound signals a lookup for an unknown account name
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists signals a name or address collision on create
	ErrAccountExists = errors.New("account already exists")
)

const (
	namePrefix = "acct:"
	addrPrefix = "addr:"
)

// record is the stored form of an account. The private key is sealed by
// the keycipher before it touches disk.
type record struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	SealedKey []byte `json:"sealed_key"`
}

// AccountStore is a LevelDB-backed mapping from account name to address
// and encrypted key material, with a secondary index enforcing address
// uniqueness.
type AccountStore struct {
	db     *leveldb.DB
	cipher *wallet.Keycipher
}

// Open creates or opens the account database at path
func Open(path string, cipher *wallet.Keycipher) (*AccountStore, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{ErrorIfMissing: false})
	if err != nil {
		return nil, fmt.Errorf("failed to open account db: %v", err)
	}
	return &AccountStore{db: db, cipher: cipher}, nil
}

// Create persists a freshly generated account. Both the name and the
// derived address must be unused.
func (s *AccountStore) Create(name string, acct wallet.Account) error {
	nameKey := []byte(namePrefix + name)
	addrKey := []byte(addrPrefix + strings.ToLower(acct.Address.Hex()))

	if _, err := s.db.Get(nameKey, nil); err == nil {
		return fmt.Errorf("%w: name %q", ErrAccountExists, name)
	} else if err != leveldb.ErrNotFound {
		return err
	}
	if _, err := s.db.Get(addrKey, nil); err == nil {
		return fmt.Errorf("%w: address %s", ErrAccountExists, acct.Address.Hex())
	} else if err != leveldb.ErrNotFound {
		return err
	}

	sealed, err := s.cipher.Seal([]byte(acct.PrivateKey))
	if err != nil {
		return fmt.Errorf("failed to seal private key: %v", err)
	}

	data, err := json.Marshal(record{
		Name:      name,
		Address:   acct.Address.Hex(),
		SealedKey: sealed,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal account record: %v", err)
	}

	batch := new(leveldb.Batch)
	batch.Put(nameKey, data)
	batch.Put(addrKey, []byte(name))
	return s.db.Write(batch, nil)
}

// Get looks up an account by name and unseals its private key
func (s *AccountStore) Get(name string) (wallet.Account, error) {
	data, err := s.db.Get([]byte(namePrefix+name), nil)
	if err == leveldb.ErrNotFound {
		return wallet.Account{}, fmt.Errorf("%w: %q", ErrAccountNotFound, name)
	}
	if err != nil {
		return wallet.Account{}, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return wallet.Account{}, fmt.Errorf("corrupt account record for %q: %v", name, err)
	}

	addr, err := eth.ParseAddress(rec.Address)
	if err != nil {
		return wallet.Account{}, fmt.Errorf("corrupt account record for %q: %v", name, err)
	}

	plain, err := s.cipher.Open(rec.SealedKey)
	if err != nil {
		return wallet.Account{}, err
	}

	return wallet.Account{Address: addr, PrivateKey: string(plain)}, nil
}

// Close shuts down the database
func (s *AccountStore) Close() error {
	return s.db.Close()
}
