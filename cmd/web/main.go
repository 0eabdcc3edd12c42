// @title           SafeHome API
// @version         1.0
// @description     전월세 계약 보호 서비스 백엔드 (계약서 분석, 타임캡슐, 해결책 리포트).
// @contact.name    안심홈즈
// @contact.email   support@safehome.kr
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /api/v1

package main

import "safehome_backend/internal/app"

func main() {
	app.Run()
}
