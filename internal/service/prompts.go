package service

import (
	"fmt"
	"strings"

	"github.com/alfaia/alfaia/internal/domain"
)

const greetingText = "Olá! Eu sou a Alfaia, sua ajudante de leitura. " +
	"Vamos aprender juntos, no seu ritmo e sem pressa. " +
	"Para começar, me conte: qual é o seu nome e quantos anos você tem?"

const askNameText = "Que bom falar com você! Ainda não sei o seu nome. Como você se chama?"

const askAgeText = "Obrigada! E quantos anos você tem?"

const apologyText = "Desculpe, tive um problema técnico agora. " +
	"Pode mandar sua mensagem de novo, por favor?"

const retryReadingText = "Não consegui entender a sua leitura. " +
	"Pode tentar ler de novo, com calma, palavra por palavra?"

const exerciseInstruction = "Agora é a sua vez: leia o texto em voz alta ou escreva o que você leu."

// completionSystemPrompt frames the assistant for free conversation. It keeps
// the vocabulary simple and the tone encouraging, matching the learner's
// level.
func completionSystemPrompt(profile *domain.LearnerProfile, snippets []domain.Snippet) string {
	var b strings.Builder
	b.WriteString("Você é a Alfaia, uma assistente de alfabetização de adultos no Brasil. ")
	b.WriteString("Converse em português simples, com frases curtas e tom acolhedor. ")
	b.WriteString("Corrija com gentileza, elogie o esforço e incentive a prática da leitura e da escrita. ")
	b.WriteString("Nunca use palavras difíceis sem explicar o que significam.\n")

	if profile.Name != "" {
		fmt.Fprintf(&b, "O nome da pessoa é %s.", profile.Name)
		if profile.Age > 0 {
			fmt.Fprintf(&b, " Ela tem %d anos.", profile.Age)
		}
		fmt.Fprintf(&b, " O nível de leitura dela é %d de %d.\n", profile.Level, domain.MaxLevel)
	}

	if len(snippets) > 0 {
		b.WriteString("Contexto de conversas e textos anteriores:\n")
		for _, s := range snippets {
			fmt.Fprintf(&b, "- %s\n", s.Content)
		}
	}
	return b.String()
}

func profileWelcome(name string) string {
	return fmt.Sprintf("Muito prazer, %s! Agora vamos fazer um pequeno teste de leitura para eu conhecer você melhor. "+
		"Não se preocupe: não existe resposta errada aqui.", name)
}

func assessmentFeedback(level int) string {
	switch {
	case level >= 3:
		return "Parabéns, você leu muito bem! Vamos praticar com textos um pouco maiores."
	case level == 2:
		return "Muito bom! Você já conhece várias palavras. Vamos praticar juntos para ler cada vez melhor."
	default:
		return "Obrigada por tentar! Vamos começar do comecinho, com palavras simples. Cada dia você vai ler um pouco melhor."
	}
}

func exerciseFeedback(score float64, levelUp, levelDown bool) string {
	switch {
	case levelUp:
		return "Parabéns, leitura excelente! Você está pronto para um texto um pouco mais difícil."
	case levelDown:
		return "Boa tentativa! Vamos praticar com um texto mais fácil para ganhar confiança."
	case score >= 0.6:
		return "Muito bem! Vamos praticar mais um texto parecido."
	default:
		return "Você está no caminho certo. Vamos tentar mais um texto do mesmo tamanho."
	}
}

func graduationInvite(name string) string {
	who := name
	if who == "" {
		who = "você"
	}
	return fmt.Sprintf("Parabéns, %s! Você avançou muito nos exercícios. "+
		"Quando quiser, me mande uma mensagem e eu conto um resumo do seu progresso.", who)
}

func evaluationSummary(profile *domain.LearnerProfile, exercises int) string {
	var b strings.Builder
	if profile.Name != "" {
		fmt.Fprintf(&b, "%s, olha só o seu progresso: ", profile.Name)
	} else {
		b.WriteString("Olha só o seu progresso: ")
	}
	fmt.Fprintf(&b, "você fez %d exercícios de leitura e chegou ao nível %d de %d. ",
		exercises, profile.Level, domain.MaxLevel)
	b.WriteString("Isso é uma grande conquista! A partir de agora podemos conversar livremente. " +
		"Pode me perguntar qualquer coisa ou pedir mais exercícios de leitura.")
	return b.String()
}
