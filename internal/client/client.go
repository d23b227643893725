package client

import (
	"time"

	"github.com/zatxm/fhblade"
	tlsClient "github.com/zatxm/tls-client"
	"github.com/zatxm/tls-client/profiles"
	"go.uber.org/zap"
)

// New 创建带浏览器指纹的http client,超时精确到毫秒
func New(timeout time.Duration, proxyUrl string) (tlsClient.HttpClient, error) {
	c, err := tlsClient.NewHttpClient(tlsClient.NewNoopLogger(), []tlsClient.HttpClientOption{
		tlsClient.WithTimeoutMilliseconds(int(timeout / time.Millisecond)),
		tlsClient.WithClientProfile(profiles.Chrome_112),
	}...)
	if err != nil {
		fhblade.Log.Error("tls client init err", zap.Error(err))
		return nil, err
	}
	if proxyUrl != "" {
		if err := c.SetProxy(proxyUrl); err != nil {
			fhblade.Log.Error("tls client set proxy err",
				zap.Error(err),
				zap.String("url", proxyUrl))
			return nil, err
		}
	}
	return c, nil
}
