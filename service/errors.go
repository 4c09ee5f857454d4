package service

import "errors"

var (
	// ErrTickerFetch marks a ticker whose snapshot could not be computed
	ErrTickerFetch = errors.New("ticker fetch failed")

	// ErrDispatch marks a digest that could not be sent
	ErrDispatch = errors.New("digest dispatch failed")
)
