// Package exercise produces reading passages sized to the learner's
// proficiency level, plus the baseline assessment material. It decides what
// to render; audio and image rendering belong to the external adapters.
package exercise

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alfaia/alfaia/internal/domain"
)

// Passage is one entry of the level-indexed reading bank.
type Passage struct {
	ID       string
	Level    int
	Title    string
	Text     string
	Keywords []string
}

// Generator selects passages and builds exercise plans.
type Generator struct {
	bank []Passage
	now  func() time.Time
}

// NewGenerator creates a generator over the built-in passage bank.
func NewGenerator() *Generator {
	return &Generator{bank: passageBank, now: time.Now}
}

// Next builds a new exercise plan at the target level, skipping recently used
// passage ids when the level offers alternatives. The plan's narration script
// equals the passage text: the assistant reads the passage aloud before the
// learner attempts it.
func (g *Generator) Next(learnerKey string, level int, exclude []string) domain.ExercisePlan {
	level = domain.ClampLevel(level)
	passage := g.pick(level, exclude)
	return domain.ExercisePlan{
		ExerciseID:  "exr_" + uuid.New().String()[:8],
		LearnerKey:  learnerKey,
		PassageID:   passage.ID,
		TargetLevel: level,
		Title:       passage.Title,
		Passage:     passage.Text,
		Narration:   passage.Text,
		ImagePrompt: illustrationPrompt(passage),
		CreatedAt:   g.now(),
	}
}

func (g *Generator) pick(level int, exclude []string) Passage {
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	var candidates []Passage
	for _, p := range g.bank {
		if p.Level == level {
			candidates = append(candidates, p)
		}
	}
	for _, p := range candidates {
		if !excluded[p.ID] {
			return p
		}
	}
	// Every passage at this level was recently used; repetition beats silence.
	return candidates[0]
}

// Passages returns the full reading bank, used to seed the shared retrieval
// curriculum.
func Passages() []Passage {
	out := make([]Passage, len(passageBank))
	copy(out, passageBank)
	return out
}

// AssessmentWords is the baseline word card presented during the reading
// assessment.
func AssessmentWords() []string {
	return []string{"CASA", "SOL", "PATO", "BOLA"}
}

// AssessmentPlan builds the baseline assessment exercise: a word card whose
// expected reading is the word list itself.
func (g *Generator) AssessmentPlan(learnerKey string) domain.ExercisePlan {
	words := AssessmentWords()
	text := strings.Join(words, " ")
	return domain.ExercisePlan{
		ExerciseID:  "exr_" + uuid.New().String()[:8],
		LearnerKey:  learnerKey,
		PassageID:   "assessment-basico",
		TargetLevel: domain.MinLevel,
		Title:       "Teste de leitura",
		Passage:     text,
		Narration:   "Olhe a imagem e leia as palavras que você vê, uma por uma.",
		ImagePrompt: AssessmentImagePrompt(words),
		CreatedAt:   g.now(),
	}
}

// AssessmentImagePrompt describes the baseline word card for the image
// adapter: large friendly lettering, one small icon per word.
func AssessmentImagePrompt(words []string) string {
	return fmt.Sprintf(
		"Crie uma imagem educativa e clara para alfabetização de adultos. "+
			"Mostre %d palavras simples escritas em letras grandes, coloridas e bem legíveis, "+
			"dispostas em uma grade, com um pequeno ícone ilustrativo ao lado de cada palavra. "+
			"As palavras são: %s. Fundo branco para boa legibilidade, estilo alegre e motivador.",
		len(words), strings.Join(words, ", "))
}

// illustrationPrompt describes the passage's key vocabulary for the image
// adapter.
func illustrationPrompt(p Passage) string {
	return fmt.Sprintf(
		"Ilustração amigável e colorida para um exercício de leitura chamado %q. "+
			"A cena deve mostrar claramente: %s. "+
			"Estilo simples e acolhedor, sem texto na imagem.",
		p.Title, strings.Join(p.Keywords, ", "))
}

// Todos os textos usam vocabulário do cotidiano; a dificuldade cresce com o
// tamanho das frases e das palavras.
var passageBank = []Passage{
	{
		ID: "n1-sol-lua", Level: 1, Title: "O Sol e a Lua",
		Text:     "O sol brilha de dia. A lua brilha de noite. O sol é quente. A lua é fria.",
		Keywords: []string{"sol", "lua", "dia", "noite"},
	},
	{
		ID: "n1-minha-casa", Level: 1, Title: "Minha Casa",
		Text:     "Eu tenho uma casa. A casa tem porta. A casa tem janela. Eu gosto da minha casa.",
		Keywords: []string{"casa", "porta", "janela"},
	},
	{
		ID: "n1-o-gato", Level: 1, Title: "O Gato",
		Text:     "O gato é bonito. O gato bebe leite. O gato gosta de brincar. Eu amo meu gato.",
		Keywords: []string{"gato", "leite", "brincar"},
	},
	{
		ID: "n2-feira", Level: 2, Title: "Dia de Feira",
		Text:     "Hoje eu fui à feira. Comprei banana, laranja e tomate. A feira estava cheia de gente. Voltei para casa com a sacola pesada.",
		Keywords: []string{"feira", "banana", "laranja", "tomate", "sacola"},
	},
	{
		ID: "n2-onibus", Level: 2, Title: "O Ônibus",
		Text:     "Todo dia eu pego o ônibus. O ônibus passa na minha rua de manhã. Eu sento perto da janela e olho a cidade. O caminho é longo, mas eu gosto.",
		Keywords: []string{"ônibus", "rua", "janela", "cidade"},
	},
	{
		ID: "n2-animal", Level: 2, Title: "Meu Animal Favorito",
		Text:     "Meu animal favorito é o cachorro. Os cachorros são fiéis e brincam muito. Eles gostam de passear e correr no parque. Eu quero ter um cachorro.",
		Keywords: []string{"cachorro", "passear", "parque"},
	},
	{
		ID: "n3-escola", Level: 3, Title: "O Dia na Escola",
		Text:     "Todos os dias eu vou para a escola à noite, depois do trabalho. Na escola eu aprendo a ler e escrever. Minha professora é muito paciente. Eu gosto de estudar com meus colegas.",
		Keywords: []string{"escola", "professora", "ler", "escrever", "colegas"},
	},
	{
		ID: "n3-fim-de-semana", Level: 3, Title: "Meu Final de Semana",
		Text:     "No fim de semana eu gosto de descansar. Pela manhã eu cuido das plantas e depois almoço com a família. À tarde jogo bola com meus vizinhos na rua. É muito divertido.",
		Keywords: []string{"fim de semana", "plantas", "família", "bola", "vizinhos"},
	},
	{
		ID: "n3-receita", Level: 3, Title: "A Receita da Avó",
		Text:     "Minha avó me ensinou uma receita de bolo. Primeiro a gente mistura os ovos com o açúcar. Depois vem a farinha e o leite. O cheiro do bolo no forno enche a casa toda.",
		Keywords: []string{"avó", "receita", "bolo", "forno"},
	},
	{
		ID: "n4-leitura", Level: 4, Title: "A Importância da Leitura",
		Text:     "A leitura é fundamental para o desenvolvimento pessoal. Quando lemos, aprendemos coisas novas e expandimos nossa imaginação. Os livros nos levam a lugares diferentes e nos apresentam pessoas interessantes. Por isso, devemos ler todos os dias.",
		Keywords: []string{"leitura", "livros", "imaginação"},
	},
	{
		ID: "n4-meio-ambiente", Level: 4, Title: "Cuidando do Meio Ambiente",
		Text:     "É importante cuidar do meio ambiente. Podemos fazer isso reciclando o lixo, economizando água e plantando árvores. Quando cuidamos da natureza, estamos cuidando do nosso futuro e do planeta onde vivemos.",
		Keywords: []string{"meio ambiente", "reciclagem", "água", "árvores"},
	},
	{
		ID: "n4-trabalho", Level: 4, Title: "Um Novo Trabalho",
		Text:     "Procurar um novo trabalho exige paciência e preparação. É preciso escrever um currículo, conversar com as pessoas e não desistir diante das respostas negativas. Cada entrevista é uma chance de aprender algo sobre nós mesmos.",
		Keywords: []string{"trabalho", "currículo", "entrevista"},
	},
	{
		ID: "n5-cidadania", Level: 5, Title: "Ler para Participar",
		Text:     "Saber ler e escrever transforma a relação de uma pessoa com a sua comunidade. Quem lê consegue entender um contrato de aluguel, acompanhar as notícias e participar das decisões do bairro com mais segurança. A alfabetização, portanto, não é apenas uma habilidade individual: é uma porta de entrada para a cidadania plena.",
		Keywords: []string{"comunidade", "contrato", "notícias", "cidadania"},
	},
	{
		ID: "n5-historia", Level: 5, Title: "Histórias que Atravessam Gerações",
		Text:     "Antes de existirem os livros, as histórias eram guardadas na memória e contadas de geração em geração ao redor do fogo. A escrita permitiu que essas narrativas atravessassem séculos sem se perder. Quando um adulto aprende a ler, ele ganha acesso a essa conversa antiga da humanidade e pode, enfim, deixar registradas as suas próprias histórias.",
		Keywords: []string{"histórias", "memória", "escrita", "gerações"},
	},
}
