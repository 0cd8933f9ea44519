// Package dataset 从 CSV 文件加载物品、标签、用户和评分数据，实现 core 中的 DAO 接口。
//
// 所有数据在构造时一次性读入内存，之后只读，可以被并发访问。
//
// 文件格式（无表头）：
//   - titles:  item,title
//   - tags:    item,tag（同一物品同一标签可重复出现）
//   - users:   user,name
//   - ratings: user,item,rating[,timestamp]（rating 为空表示取消评分）
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rushteam/tagrec/core"
)

// readCSV 逐行读取 path，对每条记录调用 fn。line 从 1 开始。
func readCSV(path string, fn func(line int, record []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return core.WrapDomainError(core.ModuleDataset, core.ErrorCodeUnavailable, "cannot open file", err)
	}
	defer f.Close()
	return scanCSV(path, f, fn)
}

func scanCSV(name string, r io.Reader, fn func(line int, record []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return core.WrapDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, "read "+name, err)
		}
		line, _ := cr.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if err := fn(line, record); err != nil {
			return core.WrapDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
				fmt.Sprintf("%s:%d", name, line), err)
		}
	}
}

func parseID(field string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", field)
	}
	return id, nil
}

func requireFields(record []string, n int) error {
	if len(record) < n {
		return fmt.Errorf("expected at least %d fields, got %d", n, len(record))
	}
	return nil
}
