// Package value 定义定宽二进制值的统一表示
//
// 每个 Value 只保存一份规范表示（prime）：定宽的大端字节串。
// 整数、文本、十六进制/八进制/二进制、调试形式都由它推导而来，
// 因此不同视图之间不会出现不同步。
//
// Value 是不可变的，所有运算都返回新的 Value：
//
//	ts, _ := kind.FromUint64(15)
//	next, _ := ts.Next()          // 16
//	_, err := kind.Max().Next()   // apierror.ErrRange
//
// 与其他形式比较时按形状自动识别：
//
//	v.CompareAny(15)          // 整数
//	v.CompareAny("0xf")       // 十六进制
//	v.CompareAny("<T 00...>") // 调试形式
//	v.CompareAny("000000001W") // 编解码文本
package value
