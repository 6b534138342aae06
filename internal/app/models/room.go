package models

// Room is a bookable teaching space.
type Room struct {
	ID           int64    `json:"id" db:"id"`
	Name         string   `json:"name" db:"name" binding:"required,max=50" example:"CS-101"`
	Capacity     int      `json:"capacity" db:"capacity" binding:"required,gte=1" example:"60"`
	RoomType     RoomType `json:"room_type" db:"room_type" binding:"required,oneof=lecture lab" example:"lecture"`
	DepartmentID *int64   `json:"department" db:"department_id" binding:"omitempty,gt=0"`
}
