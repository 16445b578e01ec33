package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TypeKeywords holds the trigger-word lists that signal a transaction type.
type TypeKeywords struct {
	Income  []string `json:"income"`
	Expense []string `json:"expense"`
}

// CategorySynonyms is an ordered mapping of category name to its synonym
// list. JSON object order is the display order of the category menu, so it
// is preserved across load and save instead of being left to map iteration.
type CategorySynonyms struct {
	Names    []string
	Synonyms map[string][]string
}

// SynonymTable is the persisted knowledge base driving inference. The JSON
// shape is fixed: top-level "keywords" with the two type-keyword lists, then
// one object per transaction type mapping category names to synonyms.
type SynonymTable struct {
	Keywords TypeKeywords     `json:"keywords"`
	Income   CategorySynonyms `json:"income"`
	Expense  CategorySynonyms `json:"expense"`
}

// Get returns the synonyms for a category and whether it is registered.
func (c CategorySynonyms) Get(name string) ([]string, bool) {
	syns, ok := c.Synonyms[name]
	return syns, ok
}

// Set registers or replaces a category's synonym list, keeping first-seen
// order for the name.
func (c *CategorySynonyms) Set(name string, synonyms []string) {
	if c.Synonyms == nil {
		c.Synonyms = make(map[string][]string)
	}
	if _, exists := c.Synonyms[name]; !exists {
		c.Names = append(c.Names, name)
	}
	c.Synonyms[name] = synonyms
}

// MarshalJSON emits the categories as a JSON object in Names order.
func (c CategorySynonyms) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		syns := c.Synonyms[name]
		if syns == nil {
			syns = []string{}
		}
		val, err := json.Marshal(syns)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a category object keeping the key order of the
// document, which encoding/json maps would otherwise discard.
func (c *CategorySynonyms) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object for category synonyms, got %v", tok)
	}

	c.Names = nil
	c.Synonyms = make(map[string][]string)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected category name, got %v", keyTok)
		}

		var synonyms []string
		if err := dec.Decode(&synonyms); err != nil {
			return fmt.Errorf("synonyms for %q: %w", name, err)
		}
		c.Set(name, synonyms)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// DefaultTable is the table seeded when no synonym file exists yet.
func DefaultTable() SynonymTable {
	var income, expense CategorySynonyms
	income.Set("Зарплата", []string{"зарплата", "зп", "оклад"})
	income.Set("Подарок", []string{"подарок", "дар"})
	income.Set("Перевод", []string{"перевод", "поступление"})

	expense.Set("Еда", []string{"продукты"})
	expense.Set("Транспорт", []string{"такси", "метро", "бензин", "проездной"})
	expense.Set("Здоровье", []string{"аптека", "врач"})
	expense.Set("Развлечения", []string{"кино", "театр", "ресторан", "кафе"})
	expense.Set("Перевод", []string{"перевод", "поступление"})

	return SynonymTable{
		Keywords: TypeKeywords{
			Income:  []string{"получил", "зачислили", "перевели", "пришло", "нашёл"},
			Expense: []string{"потратил", "заплатил", "ушло", "списали", "купил", "оплатил"},
		},
		Income:  income,
		Expense: expense,
	}
}
