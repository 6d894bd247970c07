package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// record mirrors jtlog.Record's JSON shape for display purposes only;
// jtlogcat reads back serialized trees, it does not link against the
// running process that produced them.
type record struct {
	Time     string `json:"Time"`
	LogLevel string `json:"LogLevel"`
	FileName string `json:"FileName,omitempty"`
	FuncName string `json:"FuncName,omitempty"`
	FileLine int    `json:"FileLine,omitempty"`
	Log      string `json:"Log"`
}

// catFile pretty-prints a jtlog-produced JSON tree to w, walking
// children in sorted name order (encoding/json's map decode drops the
// file's insertion order, and jtlogcat is a read-only viewer, not a
// participant in the tree's insertion-order discipline) but printing
// each node's own "logs" array in file order.
func catFile(w io.Writer, path string, useColor bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(b, &tree); err != nil {
		return fmt.Errorf("%s: not a jtlog tree: %w", path, err)
	}
	printNode(w, "", tree, useColor)
	return nil
}

func printNode(w io.Writer, path string, node map[string]interface{}, useColor bool) {
	if raw, ok := node["logs"]; ok {
		printLogs(w, path, raw, useColor)
	}

	names := make([]string, 0, len(node))
	for k := range node {
		if k == "logs" {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		child, ok := node[name].(map[string]interface{})
		if !ok {
			continue
		}
		childPath := name
		if path != "" {
			childPath = path + "." + name
		}
		printNode(w, childPath, child, useColor)
	}
}

func printLogs(w io.Writer, path string, raw interface{}, useColor bool) {
	arr, ok := raw.([]interface{})
	if !ok {
		return
	}
	for _, item := range arr {
		b, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var r record
		if err := json.Unmarshal(b, &r); err != nil {
			continue
		}
		if path == "" {
			path = "(root)"
		}
		line := fmt.Sprintf("%s [%s] %s: %s", r.Time, r.LogLevel, path, r.Log)
		if useColor {
			levelColor(r.LogLevel).Fprintln(w, line)
		} else {
			fmt.Fprintln(w, line)
		}
	}
}
