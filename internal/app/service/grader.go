package service

import (
	"slices"
	"strings"
)

const (
	DefaultSuccessOutput = "Ejecución exitosa"
	FailureOutput        = "Error: La solución no cumple con los requisitos esperados.\n" +
		"Revisa la lógica de tu algoritmo y asegúrate de que resuelve el problema planteado."
)

// Grade reports whether code contains at least one of the expected fragments.
// A single matching fragment is enough, so a partial or even unrelated
// solution passes as long as it quotes one fragment verbatim; an empty
// fragment matches everything.
func Grade(expected []string, code string) bool {
	return slices.ContainsFunc(expected, func(fragment string) bool {
		return strings.Contains(code, fragment)
	})
}
