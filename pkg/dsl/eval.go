package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/levelkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// row 是长表中的一行，key 为列名
		cel.Variable("row", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Filter 是长表行过滤器，使用 CEL (Common Expression Language) 实现。
// 在去重/打分之前对长表逐行求值，只保留表达式为 true 的行。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：row.dose > 0.0 / row.dose >= 100.0
//   - 字符串：row.route == "oral"
//   - 逻辑：row.route == "oral" && row.dose > 0.0
//   - 存在性：row.dose != null
//
// 示例：
//   - `row.dose > 0.0` → 只保留剂量为正的记录
//   - `row.route == "iv" || row.route == "oral"` → 按给药途径过滤
type Filter struct {
	expr string
	prg  cel.Program
}

// NewFilter 编译一个行过滤表达式。表达式会被编译并缓存，可多次调用 Match。
// 空表达式返回 (nil, nil)，语义为不过滤。
func NewFilter(expr string) (*Filter, error) {
	if expr == "" {
		return nil, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}

	return &Filter{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式（用于日志/调试）。
func (f *Filter) Expr() string { return f.expr }

// Match 对一行求值，返回表达式结果。
// 注意：对不存在的 key，CEL 会返回错误；用 row.key != null 检查存在性。
func (f *Filter) Match(row core.Row) (bool, error) {
	out, _, err := f.prg.Eval(map[string]any{
		"row": map[string]any(row),
	})
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}
