// Package apierror 提供 lexid 统一的错误类型
//
// 所有错误都是 *Error，按 Code 判断类型，因此可以直接使用 errors.Is：
//
//	if errors.Is(err, apierror.ErrDecode) {
//	    // 非法的 base32 字符或错误的填充
//	}
//
// 预定义错误与分类：
//   - ErrFormat       构造时输入的长度、字符集或进制不合法
//   - ErrDecode       base32 解码失败（非法字符、填充数量不在 {0,1,3,4,6} 中）
//   - ErrRange        转换或运算结果超出固定位宽
//   - ErrLockTimeout  在限定时间内没有拿到跨进程锁
//   - ErrPersistence  计数文件缺失或随机源降级，只作为告警收集，不作为失败返回
//   - ErrStorage      读写计数器存储失败
//
// HTTP 接口中的错误响应格式：
//
//	{
//	    "errors": [
//	        {
//	            "code": "InvalidEncoding",
//	            "message": "invalid symbol 'O'"
//	        }
//	    ],
//	    "requestID": ""
//	}
package apierror
