package core

type (
	// Logger is any leveled logger.
	// expected args: error, RequestInfo, map[string]interface{} or any value worth printing alongside msg.
	Logger interface {
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
	}

	// RequestInfo identifies the HTTP request or CLI command an entry was logged for.
	RequestInfo struct {
		ID     string
		Method string
		Path   string
	}
)
