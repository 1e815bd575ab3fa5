// Package docs Hut Services API.
//
// Сервис собирает данные о горных хижинах из OpenStreetMap, refuges.info, Wikidata
// и Nominatim и приводит их к общей схеме хижины.
//
// Основные возможности:
// - Загрузка исходных записей источников (bbox, limit, offset)
// - Конвертация записей в общую схему с типом хижины, вместимостью и фото
// - Определение типа хижины и slug по названию
// - Координаты по названию и высоты по координатам
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
