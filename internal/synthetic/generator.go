// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package synthetic generates labeled Brazilian request texts for
// exercising the detection pipeline. Identifiers carry correct check
// digits so validator behavior matches real inputs.
package synthetic

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"pii-guardian/internal/validators/cnpj"
	"pii-guardian/internal/validators/cpf"
)

var firstNames = []string{
	"João", "Pedro", "Lucas", "Gabriel", "Rafael", "Mateus", "Bruno", "Carlos",
	"Daniel", "Felipe", "Gustavo", "Henrique", "José", "Leonardo", "Marcos",
	"Paulo", "Ricardo", "Thiago", "Victor",
	"Maria", "Ana", "Juliana", "Fernanda", "Camila", "Amanda", "Bruna",
	"Carolina", "Daniela", "Eduarda", "Gabriela", "Helena", "Isabela", "Julia",
	"Larissa", "Mariana", "Natalia", "Patricia", "Raquel", "Vanessa",
}

var lastNames = []string{
	"Silva", "Santos", "Oliveira", "Souza", "Rodrigues", "Ferreira", "Alves",
	"Pereira", "Lima", "Gomes", "Costa", "Ribeiro", "Martins", "Carvalho",
	"Almeida", "Lopes", "Soares", "Fernandes", "Vieira", "Barbosa", "Rocha",
	"Dias", "Nascimento", "Andrade", "Moreira", "Nunes", "Marques", "Machado",
}

var validDDDs = []int{
	11, 12, 13, 14, 15, 16, 17, 18, 19,
	21, 22, 24, 27, 28,
	31, 32, 33, 34, 35, 37, 38,
	41, 42, 43, 44, 45, 46, 47, 48, 49,
	51, 53, 54, 55,
	61, 62, 63, 64, 65, 66, 67, 68, 69,
	71, 73, 74, 75, 77, 79,
	81, 82, 83, 84, 85, 86, 87, 88, 89,
	91, 92, 93, 94, 95, 96, 97, 98, 99,
}

var emailDomains = []string{
	"gmail.com", "hotmail.com", "yahoo.com.br", "outlook.com", "uol.com.br",
	"terra.com.br", "bol.com.br", "ig.com.br", "globo.com", "live.com",
}

// templatesWithPII use placeholders that Generate fills and labels.
var templatesWithPII = []string{
	"Solicito acesso às informações referentes ao processo. Meus dados: CPF {cpf}, telefone {phone}.",
	"Eu, {name}, portador do CPF {cpf}, venho solicitar esclarecimentos sobre o protocolo em questão.",
	"Gostaria de obter cópia dos documentos. Para contato: {email} ou telefone {phone}.",
	"Requeiro informações sobre meu cadastro. Email: {email}, CPF: {cpf}.",
	"Solicito providências urgentes. Dados para contato: Sr(a). {name}, celular {phone}.",
	"Prezados, necessito de informações. Meu CPF é {cpf} e moro no CEP {cep}.",
	"Venho por meio desta solicitar. Contato: {name}, {phone}, {email}.",
	"Peço análise do meu pedido. CPF: {cpf}, Telefone: {phone}, Email: {email}.",
	"Solicito urgência na resposta. Dados: {name}, CPF {cpf}, residente no CEP {cep}.",
	"Para fins de cadastro, informo: Nome: {name}, CPF: {cpf}, Telefone: {phone}.",
	"A empresa de CNPJ {cnpj} solicita acesso ao processo em nome de {name}.",
}

var templatesWithoutPII = []string{
	"Solicito informações sobre o andamento do processo administrativo.",
	"Gostaria de saber quais documentos são necessários para dar entrada no pedido.",
	"Venho por meio desta requerer esclarecimentos sobre a legislação vigente.",
	"Prezados, qual o prazo para análise dos processos protocolados?",
	"Solicito informações sobre os serviços disponíveis para a população.",
	"Gostaria de obter informações sobre o horário de funcionamento do órgão.",
	"Peço orientação sobre como proceder para solicitar o serviço.",
	"Qual é o procedimento para dar entrada em um recurso administrativo?",
	"Solicito informações gerais sobre os programas de governo disponíveis.",
	"Venho requerer cópia de normativas e regulamentos vigentes.",
}

// Label marks a planted entity with its byte span for evaluation.
type Label struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Record is one generated request with its ground-truth labels.
type Record struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	HasPII   bool    `json:"has_pii"`
	Entities []Label `json:"entities"`
}

// Generator produces deterministic records for a given seed.
type Generator struct {
	rng     *rand.Rand
	counter int
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// CPF returns a formatted CPF with correct check digits.
func (g *Generator) CPF() string {
	base := make([]byte, 9)
	for i := range base {
		base[i] = byte('0' + g.rng.Intn(10))
	}
	d1, d2 := cpf.CheckDigits(string(base))
	raw := fmt.Sprintf("%s%d%d", base, d1, d2)
	return fmt.Sprintf("%s.%s.%s-%s", raw[:3], raw[3:6], raw[6:9], raw[9:])
}

// CNPJ returns a formatted headquarters CNPJ (branch 0001) with correct
// check digits.
func (g *Generator) CNPJ() string {
	base := make([]byte, 12)
	for i := 0; i < 8; i++ {
		base[i] = byte('0' + g.rng.Intn(10))
	}
	copy(base[8:], "0001")
	d1, d2 := cnpj.CheckDigits(string(base))
	raw := fmt.Sprintf("%s%d%d", base, d1, d2)
	return fmt.Sprintf("%s.%s.%s/%s-%s", raw[:2], raw[2:5], raw[5:8], raw[8:12], raw[12:])
}

// Phone returns a formatted Brazilian phone number with a valid DDD.
// Roughly 70% are mobile numbers.
func (g *Generator) Phone() string {
	ddd := validDDDs[g.rng.Intn(len(validDDDs))]
	if g.rng.Float64() < 0.7 {
		return fmt.Sprintf("(%d) 9%04d-%04d", ddd, g.rng.Intn(10000), g.rng.Intn(10000))
	}
	first := 2 + g.rng.Intn(4)
	return fmt.Sprintf("(%d) %d%03d-%04d", ddd, first, g.rng.Intn(1000), g.rng.Intn(10000))
}

// CEP returns a formatted postal code.
func (g *Generator) CEP() string {
	raw := fmt.Sprintf("%08d", g.rng.Intn(100000000))
	if allSame(raw) {
		raw = "01310100"
	}
	return raw[:5] + "-" + raw[5:]
}

// Name returns a Brazilian full name with one or two surnames.
func (g *Generator) Name() string {
	parts := []string{firstNames[g.rng.Intn(len(firstNames))]}
	for n := 1 + g.rng.Intn(2); n > 0; n-- {
		parts = append(parts, lastNames[g.rng.Intn(len(lastNames))])
	}
	return strings.Join(parts, " ")
}

// Email derives an address from a name, folding accents out of the
// local part.
func (g *Generator) Email(name string) string {
	local := foldAccents(strings.ToLower(strings.ReplaceAll(name, " ", ".")))
	if g.rng.Float64() < 0.3 {
		local += fmt.Sprintf("%d", 1+g.rng.Intn(999))
	}
	return local + "@" + emailDomains[g.rng.Intn(len(emailDomains))]
}

// Record generates one request; withPII controls whether personal data
// is planted and labeled.
func (g *Generator) Record(withPII bool) Record {
	g.counter++
	if !withPII {
		return Record{
			ID:   fmt.Sprintf("clean_%06d", g.counter),
			Text: templatesWithoutPII[g.rng.Intn(len(templatesWithoutPII))],
		}
	}

	name := g.Name()
	values := map[string]string{
		"{name}":  name,
		"{cpf}":   g.CPF(),
		"{cnpj}":  g.CNPJ(),
		"{phone}": g.Phone(),
		"{email}": g.Email(name),
		"{cep}":   g.CEP(),
	}
	labelTypes := map[string]string{
		"{name}":  "NAME",
		"{cpf}":   "CPF",
		"{cnpj}":  "CNPJ",
		"{phone}": "PHONE",
		"{email}": "EMAIL",
		"{cep}":   "CEP",
	}

	template := templatesWithPII[g.rng.Intn(len(templatesWithPII))]
	text := template
	for placeholder, value := range values {
		text = strings.ReplaceAll(text, placeholder, value)
	}

	var labels []Label
	for placeholder, value := range values {
		if !strings.Contains(template, placeholder) {
			continue
		}
		if start := strings.Index(text, value); start >= 0 {
			labels = append(labels, Label{
				Type:  labelTypes[placeholder],
				Value: value,
				Start: start,
				End:   start + len(value),
			})
		}
	}
	sortLabels(labels)

	return Record{
		ID:       fmt.Sprintf("pii_%06d", g.counter),
		Text:     text,
		HasPII:   true,
		Entities: labels,
	}
}

// Dataset generates size records with the given fraction containing
// personal data, shuffled.
func (g *Generator) Dataset(size int, piiRatio float64) []Record {
	withPII := int(float64(size) * piiRatio)
	records := make([]Record, 0, size)
	for i := 0; i < size; i++ {
		records = append(records, g.Record(i < withPII))
	}
	g.rng.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
	return records
}

func sortLabels(labels []Label) {
	sort.Slice(labels, func(i, j int) bool { return labels[i].Start < labels[j].Start })
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

var accentFolds = strings.NewReplacer(
	"á", "a", "â", "a", "ã", "a", "à", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u",
	"ç", "c",
)

func foldAccents(s string) string {
	return accentFolds.Replace(s)
}
