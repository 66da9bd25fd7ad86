// Package http はHTTPレイヤーの共通部品（外部API用クライアント、レスポンス封筒、エラー変換ミドルウェア）を提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は chatbot のプロバイダ(OpenAI / Gemini)へ渡す共有クライアントを作成します。
// 宛先はほぼ1ホストなので、ホストあたりのアイドル接続を残して TLS の張り直しを減らします。
// timeout は CHAT_TIMEOUT で、応答本文の読み込みまで含めた1回の質問の上限です。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
