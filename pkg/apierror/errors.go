package apierror

import "net/http"

var (
	// ErrFormat 构造时输入的长度、字符集或进制不合法
	ErrFormat = &Error{
		Code:       "InvalidFormat",
		Message:    "The input has the wrong length, alphabet or radix for the target width.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrDecode base32 解码失败
	ErrDecode = &Error{
		Code:       "InvalidEncoding",
		Message:    "The input is not valid base32.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrRange 结果超出固定位宽
	ErrRange = &Error{
		Code:       "ValueOutOfRange",
		Message:    "The result does not fit into the fixed field width.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrLockTimeout 没有在限定时间内拿到跨进程锁
	ErrLockTimeout = &Error{
		Code:       "LockTimeout",
		Message:    "The cross-process lock was not acquired in time.",
		HTTPStatus: http.StatusServiceUnavailable,
	}

	// ErrPersistence 非致命告警：计数文件缺失、随机源降级等
	ErrPersistence = &Error{
		Code:       "PersistenceWarning",
		Message:    "A persisted counter was missing or a fallback was engaged.",
		HTTPStatus: http.StatusOK,
	}

	// ErrStorage 读写计数器存储失败
	ErrStorage = &Error{
		Code:       "StorageError",
		Message:    "The counter store could not be read or written.",
		HTTPStatus: http.StatusInternalServerError,
	}

	// ErrInvalidParameter 请求参数不合法
	ErrInvalidParameter = &Error{
		Code:       "InvalidParameter",
		Message:    "A parameter specified in a request is not valid.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrInternal 内部不变量被破坏
	ErrInternal = &Error{
		Code:       "InternalError",
		Message:    "An internal error has occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
