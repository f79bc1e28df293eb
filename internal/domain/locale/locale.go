package locale

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Locale набор строк интерфейса по ключам
type Locale struct {
	strings map[string]string
}

// Load читает строки из YAML файла вида key: text
func Load(path string) (*Locale, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locale %s: %w", path, err)
	}
	m := make(map[string]string)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse locale %s: %w", path, err)
	}
	return New(m), nil
}

// New создает Locale из готового набора строк
func New(m map[string]string) *Locale {
	if m == nil {
		m = make(map[string]string)
	}
	return &Locale{strings: m}
}

// Get возвращает строку по ключу, а при ее отсутствии сам ключ
func (l *Locale) Get(key string) string {
	if s, ok := l.strings[key]; ok {
		return s
	}
	return key
}

// Format подставляет аргументы в строку по ключу
func (l *Locale) Format(key string, args ...any) string {
	return fmt.Sprintf(l.Get(key), args...)
}
