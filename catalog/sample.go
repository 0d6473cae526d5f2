package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/rushteam/bookrec/core"
)

// DefaultSampleSeed 是采样的默认随机种子。
const DefaultSampleSeed = 42

// SampleOptions 采样参数，Fraction 与 Rows 二选一，Fraction 优先。
type SampleOptions struct {
	// Fraction 采样比例，取值 (0, 1]
	Fraction float64

	// Rows 采样行数，大于总行数时保留全部
	Rows int

	// Seed 随机种子，0 时使用 42
	Seed uint64
}

// SampleResult 是采样结果统计。
type SampleResult struct {
	InputRows  int
	OutputRows int
}

// Sample 从 r 读取 CSV，按 opts 采样后写入 w，表头原样保留。
// 相同输入与种子得到相同输出。
func Sample(r io.Reader, w io.Writer, opts SampleOptions) (SampleResult, error) {
	var res SampleResult
	if err := opts.validate(); err != nil {
		return res, err
	}

	reader := newReader(r)
	head, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return res, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: empty csv")
	}
	if err != nil {
		return res, fmt.Errorf("catalog: read header: %w", err)
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return res, fmt.Errorf("catalog: read rows: %w", err)
	}
	res.InputRows = len(rows)

	selected := pick(rows, opts)
	res.OutputRows = len(selected)

	writer := csv.NewWriter(w)
	if err := writer.Write(head); err != nil {
		return res, err
	}
	if err := writer.WriteAll(selected); err != nil {
		return res, err
	}
	return res, writer.Error()
}

func (o SampleOptions) validate() error {
	switch {
	case o.Fraction == 0 && o.Rows == 0:
		return invalidSample("fraction or rows is required")
	case o.Fraction != 0 && (o.Fraction < 0 || o.Fraction > 1):
		return invalidSample("fraction must be in (0, 1]")
	case o.Fraction == 0 && o.Rows < 0:
		return invalidSample("rows must be positive")
	}
	return nil
}

func pick(rows [][]string, opts SampleOptions) [][]string {
	n := len(rows)
	k := opts.Rows
	if opts.Fraction > 0 {
		k = int(math.Round(opts.Fraction * float64(n)))
	}
	if k >= n {
		return rows
	}
	seed := opts.Seed
	if seed == 0 {
		seed = DefaultSampleSeed
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)[:k]
	out := make([][]string, k)
	for i, j := range perm {
		out[i] = rows[j]
	}
	return out
}

func invalidSample(msg string) error {
	return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: sample: "+msg)
}
