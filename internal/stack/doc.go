// Package stack управляет жизненным циклом локального dev-стека.
//
// Стек описан декларативно в compose.yaml и поднимается через
// podman-compose; пакет — тонкая обёртка над бинарём compose
// (compose.go), плюс подготовка рабочего каталога (scaffold.go)
// и диагностика окружения (doctor.go).
//
// Никакой логики оркестрации здесь нет: вся семантика стека живёт
// в compose-файле и образах сервисов.
package stack
