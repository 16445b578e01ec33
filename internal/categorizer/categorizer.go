// Package categorizer builds the keyword index that drives transaction
// inference: a transaction-type keyword map and, per type, an ordered
// category list with its own keyword map. The index is loaded from the
// synonym store, mutated through AddCategory/AddKeyword, and shared
// read-mostly with the parser.
package categorizer

import (
	"regexp"
	"strings"
	"sync"

	"mlebedev/ledgerbot/internal/logging"
	"mlebedev/ledgerbot/internal/models"
	"mlebedev/ledgerbot/internal/store"
)

// tokenClean strips every rune that is not a basic word character or a
// Cyrillic letter. Matching is single-token only; multi-word phrases are
// never matched.
var tokenClean = regexp.MustCompile(`[^0-9A-Za-z_а-яА-ЯёЁ]`)

// categorySet holds one transaction type's categories and keyword map.
// keywordOrder remembers insertion order so the saved synonym lists stay
// stable across rewrites.
type categorySet struct {
	names        []string
	keywords     map[string]string
	keywordOrder []string
}

func newCategorySet() *categorySet {
	return &categorySet{keywords: make(map[string]string)}
}

func (cs *categorySet) hasCategory(name string) bool {
	for _, n := range cs.names {
		if n == name {
			return true
		}
	}
	return false
}

func (cs *categorySet) setKeyword(word, category string) {
	if _, exists := cs.keywords[word]; !exists {
		cs.keywordOrder = append(cs.keywordOrder, word)
	}
	cs.keywords[word] = category
}

// Categorizer is the keyword index. All lookups are case-insensitive; keys
// are stored lowercased.
type Categorizer struct {
	store  *store.SynonymStore
	logger logging.Logger

	mu           sync.RWMutex
	typeKeywords map[string]models.TransactionType
	rawKeywords  store.TypeKeywords
	sets         map[models.TransactionType]*categorySet
}

// NewCategorizer builds the index from the synonym store. A load failure of
// any kind leaves an empty index rather than failing: the system stays
// usable with zero inference.
func NewCategorizer(synonyms *store.SynonymStore, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Categorizer{
		store:  synonyms,
		logger: logger,
	}
	c.reset()

	if err := c.load(); err != nil {
		c.logger.WithError(err).Warn("Failed to load synonym table, starting with an empty index")
		c.reset()
	}
	return c
}

func (c *Categorizer) reset() {
	c.typeKeywords = make(map[string]models.TransactionType)
	c.rawKeywords = store.TypeKeywords{}
	c.sets = map[models.TransactionType]*categorySet{
		models.TypeIncome:  newCategorySet(),
		models.TypeExpense: newCategorySet(),
	}
}

func (c *Categorizer) load() error {
	table, err := c.store.Load()
	if err != nil {
		return err
	}
	c.buildIndex(table)
	return nil
}

// buildIndex inverts the synonym table into the lookup maps. Every category
// name is injected, lowercased, as a keyword for itself and as a trigger for
// its transaction type.
func (c *Categorizer) buildIndex(table store.SynonymTable) {
	c.reset()

	for _, word := range table.Keywords.Income {
		w := strings.ToLower(word)
		c.typeKeywords[w] = models.TypeIncome
		c.rawKeywords.Income = append(c.rawKeywords.Income, w)
	}
	for _, word := range table.Keywords.Expense {
		w := strings.ToLower(word)
		c.typeKeywords[w] = models.TypeExpense
		c.rawKeywords.Expense = append(c.rawKeywords.Expense, w)
	}

	// Types are processed in fixed order so that a category name present in
	// both tables always resolves to the same type: the expense entry is
	// written last and wins.
	byType := []struct {
		txType models.TransactionType
		cats   store.CategorySynonyms
	}{
		{models.TypeIncome, table.Income},
		{models.TypeExpense, table.Expense},
	}
	for _, group := range byType {
		txType, cats := group.txType, group.cats
		set := c.sets[txType]
		for _, name := range cats.Names {
			set.names = append(set.names, name)
			synonyms, _ := cats.Get(name)
			for _, syn := range synonyms {
				set.setKeyword(strings.ToLower(syn), name)
			}
			// Self-keyword: the category name alone identifies both the
			// category and its transaction type.
			self := strings.ToLower(name)
			set.setKeyword(self, name)
			c.typeKeywords[self] = txType
		}
	}
}

// Reload replaces the index with the current on-disk table. Callers use it
// to reconcile after a failed save.
func (c *Categorizer) Reload() error {
	table, err := c.store.Load()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buildIndex(table)
	return nil
}

// Categories returns the ordered category list for a transaction type.
func (c *Categorizer) Categories(txType models.TransactionType) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set, ok := c.sets[txType]
	if !ok {
		return nil
	}
	out := make([]string, len(set.names))
	copy(out, set.names)
	return out
}

// DetectType scans the text's tokens left to right and returns the type of
// the first one found in the type-keyword map. Text with no recognizable
// keyword resolves to expense: an unflagged mention more often describes a
// purchase than income.
func (c *Categorizer) DetectType(text string) models.TransactionType {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, word := range strings.Fields(strings.ToLower(text)) {
		clean := tokenClean.ReplaceAllString(word, "")
		if txType, ok := c.typeKeywords[clean]; ok {
			return txType
		}
	}
	return models.TypeExpense
}

// DetectCategory scans the text's tokens left to right against the category
// keywords of the given transaction type and returns the first match, or ""
// when nothing matches.
func (c *Categorizer) DetectCategory(txType models.TransactionType, text string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set, ok := c.sets[txType]
	if !ok {
		return ""
	}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		clean := tokenClean.ReplaceAllString(word, "")
		if category, ok := set.keywords[clean]; ok {
			return category
		}
	}
	return ""
}

// AddCategory registers a new category and its self-keyword, then persists
// the table. It returns false without touching anything when the type is
// invalid or the category already exists. A non-nil error means the in-memory
// index was updated but the save failed; the on-disk copy is stale until a
// successful save or a Reload.
func (c *Categorizer) AddCategory(txType models.TransactionType, name string) (bool, error) {
	if !txType.Valid() || name == "" {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	set := c.sets[txType]
	if set.hasCategory(name) {
		return false, nil
	}

	set.names = append(set.names, name)
	self := strings.ToLower(name)
	set.setKeyword(self, name)
	c.typeKeywords[self] = txType

	c.logger.WithFields(
		logging.Field{Key: "type", Value: string(txType)},
		logging.Field{Key: "category", Value: name},
	).Info("Added category")

	return true, c.store.Save(c.snapshotLocked())
}

// AddKeyword maps a keyword to an existing category of the given type and
// persists the table. The keyword is stored lowercased; an existing mapping
// for the same word is overwritten. Returns false when the type is invalid
// or the category is not registered.
func (c *Categorizer) AddKeyword(txType models.TransactionType, keyword, category string) (bool, error) {
	if !txType.Valid() || keyword == "" {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	set := c.sets[txType]
	if !set.hasCategory(category) {
		return false, nil
	}

	set.setKeyword(strings.ToLower(keyword), category)

	c.logger.WithFields(
		logging.Field{Key: "type", Value: string(txType)},
		logging.Field{Key: "keyword", Value: strings.ToLower(keyword)},
		logging.Field{Key: "category", Value: category},
	).Info("Added keyword")

	return true, c.store.Save(c.snapshotLocked())
}

// Snapshot reconstructs the synonym-table shape from the inverted maps.
func (c *Categorizer) Snapshot() store.SynonymTable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// snapshotLocked emits, per category, every keyword currently mapping to it
// except the self-keyword, which is implicit on reload. Callers must hold
// the mutex.
func (c *Categorizer) snapshotLocked() store.SynonymTable {
	table := store.SynonymTable{
		Keywords: store.TypeKeywords{
			Income:  append([]string{}, c.rawKeywords.Income...),
			Expense: append([]string{}, c.rawKeywords.Expense...),
		},
	}

	out := map[models.TransactionType]*store.CategorySynonyms{
		models.TypeIncome:  &table.Income,
		models.TypeExpense: &table.Expense,
	}
	for txType, dst := range out {
		set := c.sets[txType]
		for _, name := range set.names {
			self := strings.ToLower(name)
			synonyms := []string{}
			for _, word := range set.keywordOrder {
				if set.keywords[word] == name && word != self {
					synonyms = append(synonyms, word)
				}
			}
			dst.Set(name, synonyms)
		}
	}
	return table
}
