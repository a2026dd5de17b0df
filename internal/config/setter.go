package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyKeyPath is returned when a configuration key path is empty.
var ErrEmptyKeyPath = errors.New("empty key path")

// ParseKeyPath splits a dotted configuration key into path segments.
func ParseKeyPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyKeyPath
	}
	return strings.Split(path, "."), nil
}

// SetConfigValue sets a configuration key in the YAML file at configPath,
// creating the file and parent directories if needed. The key must be a
// known configuration key and the value must parse as the key's type.
// Existing comments in the file are preserved via yaml.Node round-tripping.
func SetConfigValue(configPath, key, value string) error {
	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return err
	}

	schema, ok := KnownKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s (see 'relprep config keys')", key)
	}

	typed, err := coerceValue(value, schema.Type)
	if err != nil {
		return err
	}

	var root yaml.Node
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := SetNestedValue(&root, keyPath, typed); err != nil {
		return err
	}

	out, err := yaml.Marshal(&root)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// coerceValue converts a raw string to the key's declared value type.
func coerceValue(value string, valueType ConfigValueType) (interface{}, error) {
	switch valueType {
	case TypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value %q (use true or false)", value)
		}
		return b, nil
	case TypeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid integer value %q", value)
		}
		return n, nil
	default:
		return value, nil
	}
}

// SetNestedValue sets keyPath to value inside a YAML document node,
// creating intermediate mappings as needed. Comments attached to
// existing key nodes survive because only value nodes are replaced.
func SetNestedValue(root *yaml.Node, keyPath []string, value interface{}) error {
	if len(keyPath) == 0 {
		return ErrEmptyKeyPath
	}

	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	mapping := root
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
		}
		mapping = root.Content[0]
	}

	for _, key := range keyPath[:len(keyPath)-1] {
		child := findMappingValue(mapping, key)
		if child == nil {
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			mapping.Content = append(mapping.Content, keyNode, child)
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("key %q is not a mapping", key)
		}
		mapping = child
	}

	valueNode := &yaml.Node{}
	if err := valueNode.Encode(value); err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}

	finalKey := keyPath[len(keyPath)-1]
	if existing := findMappingValue(mapping, finalKey); existing != nil {
		*existing = *valueNode
		return nil
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: finalKey}
	mapping.Content = append(mapping.Content, keyNode, valueNode)
	return nil
}

// GetNestedValue returns the node at keyPath, or nil if any segment is missing.
func GetNestedValue(root *yaml.Node, keyPath []string) *yaml.Node {
	if root == nil || len(keyPath) == 0 {
		return nil
	}

	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}

	for _, key := range keyPath {
		node = findMappingValue(node, key)
		if node == nil {
			return nil
		}
	}
	return node
}

// findMappingValue returns the value node for key within a mapping node.
func findMappingValue(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
