package handler

import (
	"net/http"
	"strconv"
)

// pageLink 在当前请求地址上改写 page 参数，生成信封里的 next/previous
// 第 1 页不带 page 参数，和原请求保持同构
// 输出绝对地址，scheme 和 host 从请求上取
func pageLink(r *http.Request, page int) *string {
	u := *r.URL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	if u.Host == "" {
		u.Host = r.Host
	}
	if u.Scheme == "" {
		u.Scheme = "http"
		if r.TLS != nil {
			u.Scheme = "https"
		}
	}
	link := u.String()
	return &link
}
