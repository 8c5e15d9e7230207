// Package generator produces employees with random field values, used to
// build fixtures and demo stores.
package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"

	"github.com/pkg/errors"
)

var (
	firstNames = []string{
		"Ana", "Bruno", "Carla", "Diego", "Elisa",
		"Fabio", "Giovana", "Heitor", "Isabela", "Jonas",
	}
	lastNames = []string{
		"Silva", "Santos", "Oliveira", "Costa", "Almeida",
		"Souza", "Ferreira", "Ribeiro", "Carvalho", "Barbosa",
	}
	jobTitles = []string{
		"Analista", "Desenvolvedor", "Gerente", "Assistente",
		"Coordenador", "Estagiario", "Diretor",
	}
	departments = []string{
		"TI", "Vendas", "RH", "Financeiro", "Marketing", "Juridico",
	}
	birthDateMin = time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)
	birthDateMax = time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC)
)

const (
	salaryMin float64 = 500
	salaryMax float64 = 10_000
)

const birthDateFormat string = "02/01/2006"

// Appender receives generated employees, store.Store satisfies it.
type Appender interface {
	Append(ctx context.Context, e *data.Employee) error
}

type Generator interface {
	// Employee returns a random employee with the given code.
	Employee(code int32) *data.Employee

	// Generate appends count random employees with codes firstCode,
	// firstCode+1...
	Generate(ctx context.Context, appender Appender, count int, firstCode int32) error

	// Sorted appends count random employees with codes 1..count, the result
	// is ascending by code as binary search requires if the store was empty.
	Sorted(ctx context.Context, appender Appender, count int) error
}

type generator struct {
	sync.Mutex
	rand *rand.Rand
}

// New creates a generator; it's seeded randomly unless it's configured with
// GENERATOR_SEED or given a uint64 seed as a parameter.
func New(parameters ...any) interface {
	internal.Configurer
	Generator
} {
	g := &generator{rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case uint64:
			g.rand = rand.New(rand.NewPCG(p, p))
		}
	}
	return g
}

func (g *generator) Configure(envs map[string]string) error {
	g.Lock()
	defer g.Unlock()

	if s, ok := envs["GENERATOR_SEED"]; ok && s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid GENERATOR_SEED %q", s)
		}
		g.rand = rand.New(rand.NewPCG(seed, seed))
	}
	return nil
}

func (g *generator) pick(items []string) string {
	return items[g.rand.IntN(len(items))]
}

func (g *generator) Employee(code int32) *data.Employee {
	g.Lock()
	defer g.Unlock()

	days := int(birthDateMax.Sub(birthDateMin).Hours() / 24)
	birthDate := birthDateMin.AddDate(0, 0, g.rand.IntN(days+1))
	salary := salaryMin + g.rand.Float64()*(salaryMax-salaryMin)
	return &data.Employee{
		Code: code,
		Name: g.pick(firstNames) + " " + g.pick(lastNames),
		NationalId: fmt.Sprintf("%03d.%03d.%03d-%02d",
			g.rand.IntN(1000), g.rand.IntN(1000), g.rand.IntN(1000), g.rand.IntN(100)),
		BirthDate:  birthDate.Format(birthDateFormat),
		JobTitle:   g.pick(jobTitles),
		Department: g.pick(departments),
		Salary:     math.Round(salary*100) / 100,
	}
}

func (g *generator) Generate(ctx context.Context, appender Appender, count int, firstCode int32) error {
	if count <= 0 {
		return nil
	}
	if int64(firstCode)+int64(count)-1 > math.MaxInt32 {
		return errors.Errorf("generating %d employees from code %d overflows the code", count, firstCode)
	}
	for i := 0; i < count; i++ {
		code := firstCode + int32(i)
		if err := appender.Append(ctx, g.Employee(code)); err != nil {
			return errors.Wrapf(err, "error while appending generated employee %d", code)
		}
	}
	return nil
}

func (g *generator) Sorted(ctx context.Context, appender Appender, count int) error {
	return g.Generate(ctx, appender, count, 1)
}
