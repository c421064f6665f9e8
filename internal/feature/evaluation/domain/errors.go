// Package domain はevaluationフィーチャーのドメインエラーを定義します。
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSeries は利用可能な価格系列が存在しないことを示します。
	ErrNoSeries = errors.New("no usable price series")

	// ErrEmptySymbol は銘柄コードが空であることを示します。
	ErrEmptySymbol = errors.New("symbol must not be empty")

	// ErrEmptyResponse は生成バックエンドが空の応答を返したことを示します。
	ErrEmptyResponse = errors.New("empty response from generation backend")
)

// DataError はデータ提供元または系列が利用できないことを示します。
// 評価開始前にリクエスト全体を中断します。
type DataError struct {
	Symbol string
	Stage  string // "series", "reference", "compute" など
	Err    error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error for %s (%s): %v", e.Symbol, e.Stage, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// GenerationError は生成バックエンドの呼び出し失敗を示します。
// Evaluator と Synthesizer の境界で吸収され、それより外には伝播しません。
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
