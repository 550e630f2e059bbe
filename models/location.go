package models

type Department struct {
	Id   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type Zone struct {
	Id      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	FloorId string `json:"floorId"`
	Type    string `json:"type"`
}

type Floor struct {
	Id         string `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	BuildingId string `json:"buildingId"`
	Level      int    `json:"level"`
}

type Building struct {
	Id   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}
