package trainer

import (
	"strconv"
	"strings"
)

// Args builds the trainer's command-line flags for an invocation.
func Args(inv Invocation) []string {
	return []string{
		"--gpu", inv.GPU,
		"--lr", FormatLearningRate(inv.LearningRate),
		"--model_name", inv.Spec.Model,
		"--dataset", string(inv.Spec.Dataset),
		"--domain_num", strconv.Itoa(inv.Spec.DomainNum),
		"--epoch", strconv.Itoa(inv.Epochs),
	}
}

// FormatLearningRate renders a rate in its shortest form, e.g. 7e-05 or 0.0007.
func FormatLearningRate(rate float64) string {
	return strconv.FormatFloat(rate, 'g', -1, 64)
}

// CommandLine renders the full argv for display.
func CommandLine(command []string, inv Invocation) string {
	argv := append(append([]string(nil), command...), Args(inv)...)
	parts := make([]string, 0, len(argv))
	for _, arg := range argv {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

// quoteArg single-quotes arguments a shell would split.
func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n'\"\\$`|&;<>()*?[]#~") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
