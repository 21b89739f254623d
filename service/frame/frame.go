/*
 * @module service/frame/frame
 * @description 特征表，按固定列顺序保存数值特征的行数据
 * @architecture 数据结构层
 * @documentReference DESIGN.md
 * @stateFlow 请求特征 -> 特征表 -> 特征工程 -> 预处理 -> 模型输入
 * @rules 列顺序确定且唯一；所有变换返回新表，不修改原表
 * @dependencies 无
 * @refs service/preprocess, service/model
 */

package frame

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch 列集合或行宽度与预期不一致
var ErrShapeMismatch = errors.New("shape mismatch")

// Frame 数值特征表
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]float64
}

// New 创建特征表，每行宽度必须等于列数
func New(columns []string, rows ...[]float64) (*Frame, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrShapeMismatch, name)
		}
		index[name] = i
	}

	copied := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShapeMismatch, i, len(row), len(columns))
		}
		copied[i] = append([]float64(nil), row...)
	}

	return &Frame{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    copied,
	}, nil
}

// Columns 返回列名副本
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// NumColumns 列数
func (f *Frame) NumColumns() int {
	return len(f.columns)
}

// NumRows 行数
func (f *Frame) NumRows() int {
	return len(f.rows)
}

// Row 返回第 i 行的副本
func (f *Frame) Row(i int) []float64 {
	return append([]float64(nil), f.rows[i]...)
}

// Has 是否包含指定列
func (f *Frame) Has(column string) bool {
	_, ok := f.index[column]
	return ok
}

// Value 读取单元格
func (f *Frame) Value(row int, column string) (float64, bool) {
	idx, ok := f.index[column]
	if !ok || row < 0 || row >= len(f.rows) {
		return 0, false
	}
	return f.rows[row][idx], true
}

// Select 按给定顺序选取列，缺少任一列即报错
func (f *Frame) Select(columns []string) (*Frame, error) {
	positions := make([]int, len(columns))
	var missing []string
	for i, name := range columns {
		idx, ok := f.index[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		positions[i] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %v", ErrShapeMismatch, missing)
	}

	rows := make([][]float64, len(f.rows))
	for r, row := range f.rows {
		selected := make([]float64, len(positions))
		for i, idx := range positions {
			selected[i] = row[idx]
		}
		rows[r] = selected
	}
	return New(columns, rows...)
}

// WithColumn 追加一列，values 长度必须等于行数
func (f *Frame) WithColumn(name string, values []float64) (*Frame, error) {
	if len(values) != len(f.rows) {
		return nil, fmt.Errorf("%w: column %q has %d values, want %d", ErrShapeMismatch, name, len(values), len(f.rows))
	}

	columns := append(f.Columns(), name)
	rows := make([][]float64, len(f.rows))
	for r, row := range f.rows {
		rows[r] = append(append(make([]float64, 0, len(row)+1), row...), values[r])
	}
	return New(columns, rows...)
}

// Map 对每个单元格应用 fn，返回新表
func (f *Frame) Map(fn func(column string, value float64) float64) *Frame {
	rows := make([][]float64, len(f.rows))
	for r, row := range f.rows {
		mapped := make([]float64, len(row))
		for i, v := range row {
			mapped[i] = fn(f.columns[i], v)
		}
		rows[r] = mapped
	}
	return &Frame{
		columns: f.Columns(),
		index:   f.index,
		rows:    rows,
	}
}
