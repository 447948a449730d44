// Package ginx 提供 gin 框架的 handler 适配器，负责参数绑定、校验和 JSON 响应
//
// 支持的 handler 函数签名：
//
//	// 有参数，有返回值，有 error
//	func(c *gin.Context, args *Args) (resp, error)
//
//	// 无参数，有返回值，有 error
//	func(c *gin.Context) (resp, error)
//
// 参数实现了 IsValid() error 时，绑定后会先调用它。
// 错误链中包含 *apierror.Error 时使用它的 HTTPStatus 和 Code 渲染响应。
//
// 使用示例：
//
//	router := gin.New()
//	router.POST("/generate-ulids", ginx.Adapt5(func(c *gin.Context, args *GenerateULIDsArgs) (*GenerateULIDsResult, error) {
//	    return svc.GenerateULIDs(c.Request.Context(), args)
//	}))
//	router.GET("/system-check", ginx.Adapt3(func(c *gin.Context) (*SystemCheckResult, error) {
//	    return svc.SystemCheck(c.Request.Context())
//	}))
package ginx
