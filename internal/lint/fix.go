package lint

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrCapExceeded — явно заданный лимит выше жёсткого предела;
// автоматическое исправление не выполняется.
var ErrCapExceeded = errors.New("limit exceeds maximum allowed")

// FixResult — итог автоисправления одного файла.
type FixResult struct {
	// Changed — файл был изменён.
	Changed bool

	// Added — какие лимиты были дописаны.
	Added []string
}

// FixResources дописывает отсутствующие лимиты ресурсов в YAML-документ,
// не трогая остальное содержимое (комментарии и порядок ключей
// сохраняются). Явно заданные значения никогда не понижаются; значение
// выше жёсткого предела — ошибка, чинить его автоматически нельзя.
func FixResources(src []byte) ([]byte, FixResult, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, FixResult{}, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, FixResult{}, errors.New("empty yaml document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, FixResult{}, errors.New("top-level yaml node is not a mapping")
	}

	var res FixResult
	if err := fixLimit(root, "max_active_runs", DefaultMaxActiveRuns, MaxAllowedActiveRuns, &res); err != nil {
		return nil, FixResult{}, err
	}
	if err := fixLimit(root, "max_active_tasks", DefaultMaxActiveTasks, MaxAllowedActiveTasks, &res); err != nil {
		return nil, FixResult{}, err
	}

	if !res.Changed {
		return src, res, nil
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, FixResult{}, fmt.Errorf("marshal yaml: %w", err)
	}
	return out, res, nil
}

// FixResourcesFile применяет FixResources к файлу на диске.
func FixResourcesFile(path string) (FixResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return FixResult{}, fmt.Errorf("read %s: %w", path, err)
	}

	out, res, err := FixResources(src)
	if err != nil {
		return FixResult{}, fmt.Errorf("fix %s: %w", path, err)
	}
	if !res.Changed {
		return res, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return FixResult{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return FixResult{}, fmt.Errorf("write %s: %w", path, err)
	}
	return res, nil
}

// fixLimit обрабатывает один ключ лимита в корневом mapping.
func fixLimit(root *yaml.Node, key string, recommended, allowed int, res *FixResult) error {
	val := mappingValue(root, key)
	if val == nil {
		appendInt(root, key, recommended)
		res.Changed = true
		res.Added = append(res.Added, fmt.Sprintf("%s: %d", key, recommended))
		return nil
	}

	n, err := strconv.Atoi(val.Value)
	if err != nil {
		return fmt.Errorf("%s: not an integer: %q", key, val.Value)
	}
	if n > allowed {
		return fmt.Errorf("%s=%d: %w (%d)", key, n, ErrCapExceeded, allowed)
	}
	// Явное значение в пределах — оставляем как есть.
	return nil
}

// mappingValue ищет значение ключа в mapping-узле.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// appendInt дописывает пару ключ-значение в конец mapping-узла.
func appendInt(m *yaml.Node, key string, value int) {
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(value)},
	)
}
