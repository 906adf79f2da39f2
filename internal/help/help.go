// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package help renders CLI help for the detection types and modes.
package help

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// TypeInfo describes one detection type for help output.
type TypeInfo struct {
	Name        string
	Description string
	Patterns    []string
	Validation  string
	Examples    []string
}

// System renders colorized help for detection types.
type System struct {
	types  map[string]TypeInfo
	colors map[string]*color.Color
}

// NewSystem creates a help system. Colors are disabled when noColor is set.
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}
	s := &System{
		types: make(map[string]TypeInfo),
		colors: map[string]*color.Color{
			"title":   color.New(color.FgWhite, color.Bold),
			"header":  color.New(color.FgBlue, color.Bold),
			"item":    color.New(color.FgCyan),
			"example": color.New(color.FgMagenta),
		},
	}
	for _, info := range builtinTypes {
		s.types[strings.ToLower(info.Name)] = info
	}
	return s
}

var builtinTypes = []TypeInfo{
	{
		Name:        "CPF",
		Description: "Brazilian individual taxpayer number (11 digits)",
		Patterns:    []string{"123.456.789-09", "123 456 789 09", "12345678909 (strict mode only)"},
		Validation:  "Mod-11 check digits; repeated-digit sequences rejected",
		Examples:    []string{`pii-guardian -text "Meu CPF é 123.456.789-09"`},
	},
	{
		Name:        "CNPJ",
		Description: "Brazilian company registration number (14 digits)",
		Patterns:    []string{"11.222.333/0001-81", "11222333000181 (strict mode only)"},
		Validation:  "Mod-11 check digits over two weight tables",
	},
	{
		Name:        "PHONE",
		Description: "Brazilian landline and mobile numbers",
		Patterns:    []string{"(11) 98765-4321", "+55 11 98765-4321", "11 3456-7890"},
		Validation:  "DDD must be assigned; mobile numbers start with 9",
	},
	{
		Name:        "EMAIL",
		Description: "Email addresses",
		Patterns:    []string{"nome@dominio.com.br"},
		Validation:  "Local part and domain structure checks",
	},
	{
		Name:        "CEP",
		Description: "Brazilian postal code (8 digits)",
		Patterns:    []string{"01310-100", "01310100 (strict mode only)"},
		Validation:  "Structural only; first digit maps to a region",
	},
	{
		Name:        "RG",
		Description: "State identity card number",
		Patterns:    []string{"12.345.678-9", "RG: 123456789"},
		Validation:  "None; check digit rules vary by state",
	},
	{
		Name:        "CNH",
		Description: "Driver's license number",
		Patterns:    []string{"CNH: 12345678901"},
		Validation:  "None; requires the CNH label to avoid digit-run noise",
	},
}

// ShowTypes lists all detection types.
func (s *System) ShowTypes() {
	s.colors["title"].Println("pii-guardian detection types")
	fmt.Println()

	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  TYPE\tDESCRIPTION")
	for _, name := range names {
		info := s.types[name]
		fmt.Fprintf(w, "  %s\t%s\n", info.Name, info.Description)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("Use -help-type <type> for patterns and validation details.")
}

// ShowType prints detailed help for one detection type.
func (s *System) ShowType(name string) {
	info, ok := s.types[strings.ToLower(name)]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown type %q. Use -list-types to see available types.\n", name)
		return
	}

	s.colors["title"].Printf("%s - %s\n", info.Name, info.Description)
	fmt.Println()
	s.colors["header"].Println("PATTERNS:")
	for _, p := range info.Patterns {
		s.colors["item"].Printf("  %s\n", p)
	}
	fmt.Println()
	s.colors["header"].Println("VALIDATION:")
	fmt.Printf("  %s\n", info.Validation)
	if len(info.Examples) > 0 {
		fmt.Println()
		s.colors["header"].Println("EXAMPLES:")
		for _, e := range info.Examples {
			s.colors["example"].Printf("  %s\n", e)
		}
	}
}

// ShowModes summarizes the built-in detection modes.
func (s *System) ShowModes() {
	s.colors["title"].Println("Detection modes")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  MODE\tTHRESHOLD\tBEHAVIOR")
	fmt.Fprintln(w, "  strict\t0.50\tMaximum recall: bare digit runs, double escalation, keeps structurally correct values with failed check digits")
	fmt.Fprintln(w, "  balanced\t0.70\tDefault: spaced variants, single escalation pass")
	fmt.Fprintln(w, "  precise\t0.85\tMaximum precision: formatted patterns only, no escalation")
	w.Flush()

	fmt.Println()
	fmt.Println("Custom modes can be declared in the config file under 'modes'.")
}
