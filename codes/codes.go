package codes

const (
	CODE_SUCCESS           = 0
	CODE_ERR_UNKNOWN       = 1000
	CODE_ERR_BAD_PARAMS    = 1001
	CODE_ERR_REQFORMAT     = 1002
	CODE_ERR_OBJ_NOT_FOUND = 1003
	CODE_ERR_STORAGE       = 1006
)
