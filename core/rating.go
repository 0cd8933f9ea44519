package core

// Rating 是用户对物品的一次显式反馈。
//
// 偏好值是一个带标记的变体：要么是带数值的评分（NewRating），
// 要么是显式的“取消评分”（NewUnrating）。数值只能通过 Value 读取，
// 调用方必须处理 ok == false 的情况。
type Rating struct {
	UserID int64
	ItemID int64

	value float64
	rated bool
}

// NewRating 创建一条带数值的评分。
func NewRating(userID, itemID int64, value float64) Rating {
	return Rating{UserID: userID, ItemID: itemID, value: value, rated: true}
}

// NewUnrating 创建一条取消评分记录（无偏好值）。
func NewUnrating(userID, itemID int64) Rating {
	return Rating{UserID: userID, ItemID: itemID}
}

// Value 返回评分值；取消评分时 ok 为 false。
func (r Rating) Value() (value float64, ok bool) {
	return r.value, r.rated
}

// IsUnrated 表示该记录是否为取消评分。
func (r Rating) IsUnrated() bool {
	return !r.rated
}
