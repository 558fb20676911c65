// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deployments

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/ava-labs/bend-deployer/pkg/ux"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Export writes the manifest networks to [w] in the given [format]
func (m *Manifest) Export(w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(m)
	case FormatTable, "":
		for _, key := range m.chainKeys() {
			if _, err := fmt.Fprintln(w, m.Networks[key].Table()); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q: expected %s, %s or %s", format, FormatTable, FormatJSON, FormatYAML)
	}
}

func (m *Manifest) chainKeys() []string {
	keys := make([]string, 0, len(m.Networks))
	for k := range m.Networks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Table renders the deployments of the network
func (n *Network) Table() string {
	t := ux.DefaultTable(
		fmt.Sprintf("Deployments on chain %d", n.ChainID),
		table.Row{"Contract", "Kind", "Address", "Implementation"},
	)
	for _, d := range n.Deployments {
		t.AppendRow(table.Row{d.Name, d.Kind, d.Address, d.Implementation})
	}
	if n.ProxyAdmin != "" {
		t.AppendFooter(table.Row{"ProxyAdmin", "", n.ProxyAdmin, ""})
	}
	return t.Render()
}
