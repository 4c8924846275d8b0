package ir

import (
	"plc/internal/ast"
	"plc/internal/errors"
)

// FoldConstants runs the constant folding / propagation pass (spec §4.2)
// over prog in place: every Var referencing a const symbol is replaced
// with the equivalent Const, and every BinExpr/UnExpr whose operands are
// both (now) Const is evaluated and replaced by its result. The pass is
// idempotent: running it again on an already-folded tree is a no-op.
func FoldConstants(prog *ast.Program) error {
	return foldBlock(prog.Body)
}

func foldBlock(b *ast.Block) error {
	for _, def := range b.Defs {
		if err := foldBlock(def.Body); err != nil {
			return err
		}
	}
	folded, err := foldStat(b.Body)
	if err != nil {
		return err
	}
	b.Body = folded.(*ast.StatList)
	return nil
}

// foldStat returns a possibly-rewritten statement. Statements never fold
// to Const themselves, but their expression children may.
func foldStat(s ast.Stat) (ast.Stat, error) {
	switch st := s.(type) {
	case *ast.AssignStat:
		expr, err := foldExpr(st.Expr)
		if err != nil {
			return nil, err
		}
		st.Expr = expr
		return st, nil
	case *ast.CallStat:
		return st, nil
	case *ast.IfStat:
		cond, err := foldExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		st.Cond = cond
		if st.Then, err = foldStat(st.Then); err != nil {
			return nil, err
		}
		if st.Else != nil {
			if st.Else, err = foldStat(st.Else); err != nil {
				return nil, err
			}
		}
		return st, nil
	case *ast.WhileStat:
		cond, err := foldExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		st.Cond = cond
		body, err := foldStat(st.Body)
		if err != nil {
			return nil, err
		}
		st.Body = body
		return st, nil
	case *ast.PrintStat, *ast.InputStat, *ast.NopStat:
		return st, nil
	case *ast.StatList:
		for i, inner := range st.Stats {
			folded, err := foldStat(inner)
			if err != nil {
				return nil, err
			}
			st.Stats[i] = folded
		}
		return st, nil
	default:
		return nil, errors.UnrecognizedNode(s.NodeKind(), s.Pos())
	}
}

// foldExpr returns a possibly-rewritten expression: a Var over a const
// symbol becomes a Const, and an operator whose operands are both Const
// after recursively folding is evaluated.
func foldExpr(e ast.Expr) (ast.Expr, error) {
	switch ex := e.(type) {
	case *ast.Const:
		return ex, nil
	case *ast.Var:
		if ex.Symbol.IsConst() {
			return &ast.Const{Position: ex.Position, Value: *ex.Symbol.Value}, nil
		}
		return ex, nil
	case *ast.BinExpr:
		lhs, err := foldExpr(ex.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := foldExpr(ex.Rhs)
		if err != nil {
			return nil, err
		}
		ex.Lhs, ex.Rhs = lhs, rhs
		lc, lok := lhs.(*ast.Const)
		rc, rok := rhs.(*ast.Const)
		if lok && rok {
			v, err := evalBinOp(ex.Op, lc.Value, rc.Value, ex.Position)
			if err != nil {
				return nil, err
			}
			return &ast.Const{Position: ex.Position, Value: v}, nil
		}
		return ex, nil
	case *ast.UnExpr:
		arg, err := foldExpr(ex.Arg)
		if err != nil {
			return nil, err
		}
		ex.Arg = arg
		if c, ok := arg.(*ast.Const); ok {
			return &ast.Const{Position: ex.Position, Value: evalUnOp(ex.Op, c.Value)}, nil
		}
		return ex, nil
	case *ast.CallExpr:
		return ex, nil
	default:
		return nil, errors.UnrecognizedNode(e.NodeKind(), e.Pos())
	}
}

func evalBinOp(op ast.BinOp, lhs, rhs int, pos ast.Position) (int, error) {
	switch op {
	case ast.OpTimes:
		return lhs * rhs, nil
	case ast.OpSlash:
		if rhs == 0 {
			return 0, errors.DivisionByZero(pos)
		}
		return lhs / rhs, nil
	case ast.OpPlus:
		return lhs + rhs, nil
	case ast.OpMinus:
		return lhs - rhs, nil
	case ast.OpEql:
		return boolToInt(lhs == rhs), nil
	case ast.OpNeq:
		return boolToInt(lhs != rhs), nil
	case ast.OpLss:
		return boolToInt(lhs < rhs), nil
	case ast.OpLeq:
		return boolToInt(lhs <= rhs), nil
	case ast.OpGtr:
		return boolToInt(lhs > rhs), nil
	case ast.OpGeq:
		return boolToInt(lhs >= rhs), nil
	default:
		return 0, errors.UnrecognizedNode(ast.KindBinExpr, pos)
	}
}

func evalUnOp(op ast.UnOp, v int) int {
	switch op {
	case ast.OpUPlus:
		return v
	case ast.OpUMinus:
		return -v
	case ast.OpOdd:
		return boolToInt(v%2 != 0)
	default:
		return v
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
