// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package recommend

// Transaction is one user's set of liked items.
type Transaction struct {
	// ID identifies the transaction owner (the user ID in the movie domain).
	// It is informational and never takes part in counting.
	ID string `json:"id,omitempty"`

	// Items is the canonical set of liked items. It may be empty.
	Items Itemset `json:"items"`
}

// NewTransaction builds a transaction with duplicate items removed.
func NewTransaction(id string, items ...Item) Transaction {
	return Transaction{ID: id, Items: NewItemset(items...)}
}

// TransactionStore is an ordered, immutable collection of transactions.
// The zero value is an empty store.
type TransactionStore struct {
	transactions []Transaction
	items        Itemset
}

// NewTransactionStore copies txs into a new store. Each transaction's items
// are re-canonicalized, so callers may pass hand-built Itemsets.
func NewTransactionStore(txs []Transaction) *TransactionStore {
	store := &TransactionStore{transactions: make([]Transaction, len(txs))}

	seen := make(map[Item]struct{})
	for i, tx := range txs {
		items := NewItemset(tx.Items...)
		store.transactions[i] = Transaction{ID: tx.ID, Items: items}
		for _, item := range items {
			seen[item] = struct{}{}
		}
	}

	distinct := make([]Item, 0, len(seen))
	for item := range seen {
		distinct = append(distinct, item)
	}
	store.items = NewItemset(distinct...)

	return store
}

// StoreFromItemsets is a convenience for tests and small in-memory inputs.
// Transaction IDs are left empty.
func StoreFromItemsets(sets ...Itemset) *TransactionStore {
	txs := make([]Transaction, len(sets))
	for i, set := range sets {
		txs[i] = Transaction{Items: set}
	}
	return NewTransactionStore(txs)
}

// Len returns the number of transactions, including empty ones.
func (s *TransactionStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.transactions)
}

// At returns the i-th transaction.
func (s *TransactionStore) At(i int) Transaction {
	return s.transactions[i]
}

// Transactions returns the transactions in insertion order.
// The returned slice is shared and must be treated as read-only.
func (s *TransactionStore) Transactions() []Transaction {
	if s == nil {
		return nil
	}
	return s.transactions
}

// DistinctItems returns every item that appears in at least one transaction.
func (s *TransactionStore) DistinctItems() Itemset {
	if s == nil {
		return Itemset{}
	}
	return s.items
}

// Find returns the first transaction with the given ID.
func (s *TransactionStore) Find(id string) (Transaction, bool) {
	for _, tx := range s.Transactions() {
		if tx.ID == id {
			return tx, true
		}
	}
	return Transaction{}, false
}
