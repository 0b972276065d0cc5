package model

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CountOp 计数调整方向
type CountOp int

const (
	CountIncr CountOp = iota
	CountDecr
)

func (op CountOp) String() string {
	if op == CountIncr {
		return "incr"
	}
	return "decr"
}

// Expr 返回原子自增/自减表达式
// 自减不会低于 0，避免无符号列在漂移时报错
func (op CountOp) Expr(column string) clause.Expr {
	if op == CountIncr {
		return gorm.Expr(column + " + 1")
	}
	return gorm.Expr("CASE WHEN " + column + " > 0 THEN " + column + " - 1 ELSE 0 END")
}

// Delta 返回调整量
func (op CountOp) Delta() int64 {
	if op == CountIncr {
		return 1
	}
	return -1
}
